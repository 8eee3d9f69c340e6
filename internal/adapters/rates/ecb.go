package rates

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/namboy94/papio/internal/core/money"
	"github.com/shopspring/decimal"
)

// ECBSource fetches fiat exchange rates from the European Central Bank's
// daily euro reference rate feed (eurofxref XML). Rates are expressed as
// currency units per euro, which is exactly the base-relative form the
// converter consumes.
type ECBSource struct {
	url    string
	client *http.Client
}

// NewECBSource creates an ECBSource against the given feed URL.
func NewECBSource(url string, timeout time.Duration) *ECBSource {
	return &ECBSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type ecbEnvelope struct {
	Cubes []ecbCube `xml:"Cube>Cube>Cube"`
}

type ecbCube struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

// FetchRates downloads and parses the reference rate feed. Individual cube
// entries that are malformed or non-positive are skipped; only a failure to
// retrieve or parse the document as a whole is an error. The Namibian dollar
// is not listed by the ECB but is pegged 1:1 to the South African rand, so
// the rand's rate is reused for it.
func (s *ECBSource) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fiat rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fiat rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fiat rate feed returned status %d", resp.StatusCode)
	}

	var envelope ecbEnvelope
	if err := xml.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse fiat rate feed: %w", err)
	}

	rates := make(map[string]decimal.Decimal, len(envelope.Cubes))
	for _, cube := range envelope.Cubes {
		if cube.Currency == "" || cube.Rate == "" {
			continue
		}
		rate, err := decimal.NewFromString(cube.Rate)
		if err != nil || !rate.IsPositive() {
			continue
		}
		rates[cube.Currency] = rate
	}

	if zar, ok := rates[money.ZAR.Code]; ok {
		if _, listed := rates[money.NAD.Code]; !listed {
			rates[money.NAD.Code] = zar
		}
	}
	return rates, nil
}
