package ports

import (
	"context"

	"github.com/namboy94/papio/internal/core/money"
	"github.com/shopspring/decimal"
)

// RateConverter is the conversion facade the ledger services depend on. The
// concrete implementation is services.ConverterService.
type RateConverter interface {
	money.Converter

	// Update ensures the rate table is fresh. It never fails; fetch problems
	// degrade individual entries through the fallback chain.
	Update(ctx context.Context, force bool)
}

// FiatRateSource fetches fiat exchange rates expressed as units per base
// currency. A currency that the provider does not list is simply absent from
// the result; that is a normal condition, not an error. An error means the
// whole fetch failed.
type FiatRateSource interface {
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// CryptoRateSource fetches crypto prices expressed in the base currency per
// coin. The converter inverts prices into units-per-base rates.
type CryptoRateSource interface {
	FetchPrices(ctx context.Context) (map[string]decimal.Decimal, error)
}

// RateCache is an opaque persistent store for the fallback rate table. It
// allows conversions to work offline immediately after process start.
type RateCache interface {
	Load() (map[string]decimal.Decimal, error)
	Store(rates map[string]decimal.Decimal) error
}
