package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/namboy94/papio/internal/adapters/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ecbFixture = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<gesmes:Sender><gesmes:name>European Central Bank</gesmes:name></gesmes:Sender>
	<Cube>
		<Cube time="2018-01-02">
			<Cube currency="USD" rate="1.2023"/>
			<Cube currency="ZAR" rate="14.8761"/>
			<Cube currency="JPY" rate="134.96"/>
			<Cube currency="XXX" rate="garbage"/>
			<Cube currency="YYY" rate="-3"/>
			<Cube rate="1.5"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func TestECBSource_FetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ecbFixture))
	}))
	defer server.Close()

	source := rates.NewECBSource(server.URL, 5*time.Second)
	fetched, err := source.FetchRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1.2023", fetched["USD"].String())
	assert.Equal(t, "14.8761", fetched["ZAR"].String())
	assert.Equal(t, "134.96", fetched["JPY"].String())

	// Malformed and non-positive entries are dropped, not fatal.
	assert.NotContains(t, fetched, "XXX")
	assert.NotContains(t, fetched, "YYY")
}

func TestECBSource_NamibianDollarPeggedToRand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ecbFixture))
	}))
	defer server.Close()

	source := rates.NewECBSource(server.URL, 5*time.Second)
	fetched, err := source.FetchRates(context.Background())
	require.NoError(t, err)

	require.Contains(t, fetched, "NAD")
	assert.True(t, fetched["NAD"].Equal(fetched["ZAR"]))
}

func TestECBSource_MissingCurrencyIsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<Envelope><Cube><Cube time="2018-01-02"><Cube currency="USD" rate="1.25"/></Cube></Cube></Envelope>`))
	}))
	defer server.Close()

	source := rates.NewECBSource(server.URL, 5*time.Second)
	fetched, err := source.FetchRates(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fetched, "USD")
	assert.NotContains(t, fetched, "ZAR")
	assert.NotContains(t, fetched, "NAD")
}

func TestECBSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := rates.NewECBSource(server.URL, 5*time.Second)
	_, err := source.FetchRates(context.Background())
	assert.Error(t, err)
}

func TestECBSource_MalformedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<Envelope><Cube>"))
	}))
	defer server.Close()

	source := rates.NewECBSource(server.URL, 5*time.Second)
	_, err := source.FetchRates(context.Background())
	assert.Error(t, err)
}

func TestCryptoSource_FetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol": "BTC", "price_eur": "6421.12345678"},
			{"symbol": "ETH", "price_eur": 210.5},
			{"symbol": "BAD", "price_eur": "not-a-number"},
			{"symbol": "NEG", "price_eur": "-1"},
			{"symbol": "", "price_eur": "5"},
			{"symbol": 42, "price_eur": "5"}
		]`))
	}))
	defer server.Close()

	source := rates.NewCryptoSource(server.URL, 5*time.Second)
	prices, err := source.FetchPrices(context.Background())
	require.NoError(t, err)

	require.Contains(t, prices, "BTC")
	assert.Equal(t, "6421.12345678", prices["BTC"].String())
	require.Contains(t, prices, "ETH")
	assert.Equal(t, "210.5", prices["ETH"].String())

	assert.NotContains(t, prices, "BAD")
	assert.NotContains(t, prices, "NEG")
	assert.Len(t, prices, 2)
}

func TestCryptoSource_MalformedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	source := rates.NewCryptoSource(server.URL, 5*time.Second)
	_, err := source.FetchPrices(context.Background())
	assert.Error(t, err)
}
