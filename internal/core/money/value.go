package money

import (
	"context"
	"fmt"
	"strings"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Converter is the contract Value arithmetic relies on for cross-currency
// operations. The converter owns the exchange-rate table and its update and
// fallback policy; Value only asks it to re-express an exact amount.
type Converter interface {
	ConvertAmount(ctx context.Context, amount decimal.Decimal, source, dest Currency) (decimal.Decimal, error)
}

// Value is an immutable monetary amount tagged with a currency. All changing
// operations return a new Value and leave the receiver untouched. The amount
// is exact; it is never rounded before formatting.
type Value struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewValue parses an exact signed decimal string into a Value. The string may
// carry one optional leading sign and at most one decimal point; thousands
// separators and exponent notation are rejected with ErrInvalidAmount.
func NewValue(amount string, currency Currency) (Value, error) {
	if !isPlainDecimal(amount) {
		return Value{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, amount)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, amount)
	}
	return Value{Amount: d, Currency: currency}, nil
}

// MustValue is a helper for static amounts that are known to be valid.
// It panics on invalid input and is intended for tests and seed data.
func MustValue(amount string, currency Currency) Value {
	v, err := NewValue(amount, currency)
	if err != nil {
		panic(err)
	}
	return v
}

// isPlainDecimal reports whether s is a plain signed decimal number: an
// optional sign, digits, and at most one decimal point with digits on at
// least one side.
func isPlainDecimal(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" || s == "." {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Add returns the sum of v and other, expressed in v's currency. The other
// value is converted first, so the result currency is always the left-hand
// operand's.
func (v Value) Add(ctx context.Context, conv Converter, other Value) (Value, error) {
	converted, err := conv.ConvertAmount(ctx, other.Amount, other.Currency, v.Currency)
	if err != nil {
		return Value{}, err
	}
	return Value{Amount: v.Amount.Add(converted), Currency: v.Currency}, nil
}

// Sub subtracts other from v. Defined as the addition of the negation.
func (v Value) Sub(ctx context.Context, conv Converter, other Value) (Value, error) {
	return v.Add(ctx, conv, other.Neg())
}

// Neg returns the value multiplied by -1. The currency is unchanged.
func (v Value) Neg() Value {
	return Value{Amount: v.Amount.Neg(), Currency: v.Currency}
}

// MulInt returns the value multiplied by an exact integer scalar.
func (v Value) MulInt(n int64) Value {
	return Value{Amount: v.Amount.Mul(decimal.NewFromInt(n)), Currency: v.Currency}
}

// IsNegative reports whether the amount is below zero.
func (v Value) IsNegative() bool {
	return v.Amount.IsNegative()
}

// Convert re-expresses the value in the target currency. Converting into the
// value's own currency returns an equal-valued copy without touching the
// converter.
func (v Value) Convert(ctx context.Context, conv Converter, target Currency) (Value, error) {
	if target == v.Currency {
		return Value{Amount: v.Amount, Currency: v.Currency}, nil
	}
	converted, err := conv.ConvertAmount(ctx, v.Amount, v.Currency, target)
	if err != nil {
		return Value{}, err
	}
	return Value{Amount: converted, Currency: target}, nil
}

// Equal reports whether both values share the same currency and are
// numerically equal. Trailing-zero scale is ignored, so 100 equals 100.00.
func (v Value) Equal(other Value) bool {
	return v.Currency == other.Currency && v.Amount.Equal(other.Amount)
}

// FormatOptions controls Value.Format. A negative Precision selects the
// currency's display precision.
type FormatOptions struct {
	UseSymbol        bool
	DecimalSeparator string
	SymbolAfter      bool
	Precision        int32
}

// DefaultFormat renders with the currency code in front and a decimal point,
// e.g. "EUR 100.12".
var DefaultFormat = FormatOptions{DecimalSeparator: ".", Precision: -1}

// Format renders the value to a human-readable string. This is the only place
// where rounding occurs, half-up to the requested precision.
func (v Value) Format(opts FormatOptions) string {
	precision := opts.Precision
	if precision < 0 {
		precision = v.Currency.DisplayPrecision
	}
	separator := opts.DecimalSeparator
	if separator == "" {
		separator = "."
	}

	label := v.Currency.Code
	if opts.UseSymbol {
		label = v.Currency.Symbol
	}

	// StringFixed rounds half away from zero, which matches the half-up
	// contract of the formatting boundary.
	formatted := strings.Replace(v.Amount.StringFixed(precision), ".", separator, 1)

	if opts.SymbolAfter {
		return formatted + " " + label
	}
	return label + " " + formatted
}

// String renders with DefaultFormat.
func (v Value) String() string {
	return v.Format(DefaultFormat)
}

// Serialize renders the lossless wire form "<CODE>:<decimal>", preserving the
// full stored precision. Example: "EUR:100.12345".
func (v Value) Serialize() string {
	return v.Currency.Code + ":" + v.Amount.String()
}

// Deserialize parses the wire form produced by Serialize. It fails with
// ErrInvalidAmount on a malformed amount or missing separator and with
// ErrUnknownCurrency on an unregistered code.
func Deserialize(serialized string) (Value, error) {
	code, amount, ok := strings.Cut(serialized, ":")
	if !ok {
		return Value{}, fmt.Errorf("%w: serialized value %q has no currency separator", apperrors.ErrInvalidAmount, serialized)
	}
	currency, err := FromCode(code)
	if err != nil {
		return Value{}, err
	}
	return NewValue(amount, currency)
}
