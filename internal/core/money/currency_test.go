package money_test

import (
	"testing"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCode(t *testing.T) {
	c, err := money.FromCode("EUR")
	require.NoError(t, err)
	assert.Equal(t, money.EUR, c)
	assert.Equal(t, money.Fiat, c.Kind)
	assert.Equal(t, int32(2), c.DisplayPrecision)

	c, err = money.FromCode("BTC")
	require.NoError(t, err)
	assert.Equal(t, money.Crypto, c.Kind)
	assert.Equal(t, int32(8), c.DisplayPrecision)
}

func TestFromCode_Unknown(t *testing.T) {
	_, err := money.FromCode("XYZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownCurrency)

	// Lookup is case sensitive, codes are registered uppercase.
	_, err = money.FromCode("eur")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCurrency)
}

func TestAllOfKind(t *testing.T) {
	fiat := money.AllOfKind(money.Fiat)
	require.Len(t, fiat, 4)
	for _, c := range fiat {
		assert.Equal(t, money.Fiat, c.Kind)
	}

	crypto := money.AllOfKind(money.Crypto)
	require.Len(t, crypto, 1)
	assert.Equal(t, money.BTC, crypto[0])
}

func TestBaseCurrencyIsEuro(t *testing.T) {
	assert.Equal(t, money.EUR, money.BaseCurrency)
}
