package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates that a string could not be parsed as an exact decimal amount.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ErrUnknownCurrency indicates that a currency code is not part of the registry.
var ErrUnknownCurrency = errors.New("unknown currency")

// ConversionError is returned when a conversion is requested between two
// currencies and at least one of them has no exchange rate anywhere, neither
// live nor in the fallback cache. Conversions are never silently defaulted
// to a 1:1 rate.
type ConversionError struct {
	Source      string
	Destination string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no exchange rate available to convert %s to %s", e.Source, e.Destination)
}

// NewConversionError creates a ConversionError for the given currency pair.
func NewConversionError(source, destination string) *ConversionError {
	return &ConversionError{Source: source, Destination: destination}
}

// IsConversionError reports whether err is (or wraps) a ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}
