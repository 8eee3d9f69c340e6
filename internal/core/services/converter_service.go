package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/ports"
	"github.com/shopspring/decimal"
)

// conversionScale is the number of fractional digits kept by the intermediate
// division of a conversion. It deliberately exceeds every currency's display
// precision so that repeated conversions do not accumulate visible drift.
const conversionScale = 128

// defaultFreshnessWindow bounds how often Update actually refetches.
const defaultFreshnessWindow = 60 * time.Second

var one = decimal.NewFromInt(1)

// ConverterService owns the exchange-rate table: a mapping from currency code
// to its rate relative to the base currency, a fallback cache used when live
// data for a currency cannot be obtained, and the update policy between the
// two. It is safe for concurrent use; the table is guarded so that a
// conversion never observes it mid-mutation.
type ConverterService struct {
	fiat      ports.FiatRateSource
	crypto    ports.CryptoRateSource
	cache     ports.RateCache // optional
	freshness time.Duration
	logger    *slog.Logger

	mu        sync.RWMutex
	rates     map[string]decimal.Decimal
	fallback  map[string]decimal.Decimal
	updatedAt time.Time
	updating  bool
	valid     bool
}

// NewConverterService constructs a converter with injected rate sources and
// an optional on-disk cache. If a cache is given, its contents seed the
// fallback table so conversions can work offline before any fetch succeeds.
func NewConverterService(fiat ports.FiatRateSource, crypto ports.CryptoRateSource, cache ports.RateCache, freshness time.Duration, logger *slog.Logger) *ConverterService {
	if freshness <= 0 {
		freshness = defaultFreshnessWindow
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &ConverterService{
		fiat:      fiat,
		crypto:    crypto,
		cache:     cache,
		freshness: freshness,
		logger:    logger,
		rates:     map[string]decimal.Decimal{money.BaseCurrency.Code: one},
		fallback:  map[string]decimal.Decimal{money.BaseCurrency.Code: one},
	}

	if cache != nil {
		cached, err := cache.Load()
		if err != nil {
			logger.Warn("Failed to load rate cache, starting without fallback data", slog.String("error", err.Error()))
		} else {
			for code, rate := range cached {
				s.fallback[code] = rate
			}
			s.fallback[money.BaseCurrency.Code] = one
		}
	}

	return s
}

// SetFallback replaces the fallback rate table. The base currency's entry is
// always forced back to 1. Intended for offline operation and tests.
func (s *ConverterService) SetFallback(rates map[string]decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		s.fallback[code] = rate
	}
	s.fallback[money.BaseCurrency.Code] = one
}

// Update refreshes the rate table from both providers. Unless forced, the
// refresh is skipped while the last successful update is younger than the
// freshness window. A failed fetch degrades individual entries through the
// fallback chain (live value, then cached value, then the previous table
// value); it never invalidates the whole table and never surfaces an error
// to the caller.
func (s *ConverterService) Update(ctx context.Context, force bool) {
	s.mu.Lock()
	if s.updating {
		s.mu.Unlock()
		return
	}
	if !force && !s.updatedAt.IsZero() && time.Since(s.updatedAt) < s.freshness {
		s.mu.Unlock()
		return
	}
	s.updating = true
	s.mu.Unlock()

	// Network I/O happens outside the lock so readers keep converting
	// against the previous table while the fetch is in flight.
	fiatRates, fiatErr := s.fiat.FetchRates(ctx)
	if fiatErr != nil {
		s.logger.Warn("Fiat rate fetch failed, falling back to cached rates", slog.String("error", fiatErr.Error()))
	}
	cryptoPrices, cryptoErr := s.crypto.FetchPrices(ctx)
	if cryptoErr != nil {
		s.logger.Warn("Crypto rate fetch failed, falling back to cached rates", slog.String("error", cryptoErr.Error()))
	}

	s.mu.Lock()
	for _, currency := range money.AllOfKind(money.Fiat) {
		rate, ok := fiatRates[currency.Code]
		if fiatErr != nil || !ok || !rate.IsPositive() {
			s.substituteFallback(currency)
			continue
		}
		s.rates[currency.Code] = rate
	}
	for _, currency := range money.AllOfKind(money.Crypto) {
		price, ok := cryptoPrices[currency.Code]
		if cryptoErr != nil || !ok || !price.IsPositive() {
			s.substituteFallback(currency)
			continue
		}
		// Providers quote a price in base currency per coin; the table wants
		// coins per unit of base currency.
		s.rates[currency.Code] = one.DivRound(price, conversionScale)
	}
	s.rates[money.BaseCurrency.Code] = one

	s.fallback = make(map[string]decimal.Decimal, len(s.rates))
	for code, rate := range s.rates {
		s.fallback[code] = rate
	}
	snapshot := s.fallback

	s.updatedAt = time.Now()
	s.updating = false
	s.valid = true
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Store(snapshot); err != nil {
			s.logger.Warn("Failed to persist rate cache", slog.String("error", err.Error()))
		}
	}
}

// substituteFallback fills a currency whose live value could not be obtained.
// A cached value wins; without one the previous table entry is kept, because
// a stale-but-real rate is preferable to a fabricated one. Callers hold the
// write lock.
func (s *ConverterService) substituteFallback(currency money.Currency) {
	if currency == money.BaseCurrency {
		return
	}
	if cached, ok := s.fallback[currency.Code]; ok {
		s.logger.Info("Using cached exchange rate", slog.String("currency", currency.Code))
		s.rates[currency.Code] = cached
		return
	}
	s.logger.Warn("No exchange rate data available", slog.String("currency", currency.Code))
}

// ConvertAmount converts an exact amount between two currencies through the
// base currency: amount / rate(source) * rate(dest), divided at
// conversionScale digits with half-up rounding. Identity conversions return
// the amount unchanged. It fails with a ConversionError when either currency
// has no rate at all.
func (s *ConverterService) ConvertAmount(ctx context.Context, amount decimal.Decimal, source, dest money.Currency) (decimal.Decimal, error) {
	if source == dest {
		return amount, nil
	}

	s.Update(ctx, false)

	s.mu.RLock()
	defer s.mu.RUnlock()

	sourceRate, okSource := s.rates[source.Code]
	destRate, okDest := s.rates[dest.Code]
	if !okSource || !okDest {
		return decimal.Decimal{}, apperrors.NewConversionError(source.Code, dest.Code)
	}

	return amount.DivRound(sourceRate, conversionScale).Mul(destRate), nil
}

// Rates returns a snapshot of the current rate table.
func (s *ConverterService) Rates() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(s.rates))
	for code, rate := range s.rates {
		out[code] = rate
	}
	return out
}

// Valid reports whether the table holds a rate for every registry currency
// and the last update completed.
func (s *ConverterService) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.updating || !s.valid {
		return false
	}
	for _, currency := range money.AllCurrencies() {
		if _, ok := s.rates[currency.Code]; !ok {
			return false
		}
	}
	return true
}

// LastUpdated returns the time of the last successful update, zero before the
// first one.
func (s *ConverterService) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

var _ money.Converter = (*ConverterService)(nil)
