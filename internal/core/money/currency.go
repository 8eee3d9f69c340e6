// Package money implements the monetary core: the closed currency registry,
// the immutable arbitrary-precision Value type and the converter contract
// the two depend on. Amounts are stored exactly; rounding happens only at
// the formatting boundary.
package money

import (
	"fmt"
	"sort"

	"github.com/namboy94/papio/internal/apperrors"
)

// CurrencyKind classifies a currency as either a real-world (fiat) currency
// or a crypto currency. The two kinds are sourced from different external
// rate providers.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "FIAT"
	Crypto CurrencyKind = "CRYPTO"
)

// Currency is an immutable registry entry. DisplayPrecision is the number of
// fractional digits used for formatting only; it never limits internal
// storage precision.
type Currency struct {
	Code             string
	Kind             CurrencyKind
	DisplayPrecision int32
	Symbol           string
}

// Supported currencies. The registry is closed: entries are fixed at process
// start and looked up by code.
var (
	EUR = Currency{Code: "EUR", Kind: Fiat, DisplayPrecision: 2, Symbol: "€"}
	USD = Currency{Code: "USD", Kind: Fiat, DisplayPrecision: 2, Symbol: "$"}
	ZAR = Currency{Code: "ZAR", Kind: Fiat, DisplayPrecision: 2, Symbol: "R"}
	NAD = Currency{Code: "NAD", Kind: Fiat, DisplayPrecision: 2, Symbol: "N$"}
	BTC = Currency{Code: "BTC", Kind: Crypto, DisplayPrecision: 8, Symbol: "BTC"}
)

// BaseCurrency is the fixed reference currency against which all exchange
// rates are expressed. Its own rate is always exactly 1.
var BaseCurrency = EUR

var registry = map[string]Currency{
	EUR.Code: EUR,
	USD.Code: USD,
	ZAR.Code: ZAR,
	NAD.Code: NAD,
	BTC.Code: BTC,
}

// FromCode looks up a currency by its code.
func FromCode(code string) (Currency, error) {
	c, ok := registry[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownCurrency, code)
	}
	return c, nil
}

// AllCurrencies returns every registry entry, ordered by code.
func AllCurrencies() []Currency {
	all := make([]Currency, 0, len(registry))
	for _, c := range registry {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// AllOfKind returns every registry entry of the given kind, ordered by code.
func AllOfKind(kind CurrencyKind) []Currency {
	var out []Currency
	for _, c := range AllCurrencies() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
