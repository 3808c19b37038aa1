package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall  = errors.New("amount below minimum allowed")
)

// Validation constants
const (
	MaxEntryAmount  = "1000000000000" // 1 trillion
	MinEntryAmount  = "0.01"
	MaxConceptLen   = 500
	MaxPaymentLines = 50
)

var (
	maxEntryAmount = MustParseMoney(MaxEntryAmount)
	minEntryAmount = MustParseMoney(MinEntryAmount)
)

// Currencies an agency can keep credit in (ISO 4217).
var validCurrencies = map[string]bool{
	"ARS": true, "USD": true, "EUR": true, "BRL": true,
	"UYU": true, "CLP": true, "PYG": true, "BOB": true,
	"PEN": true, "COP": true, "MXN": true, "GBP": true,
	"CAD": true, "CHF": true, "JPY": true, "AUD": true,
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %q is not a supported ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a posting or payment line magnitude.
func ValidateAmount(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.Cmp(minEntryAmount) < 0 {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinEntryAmount)
	}

	if amount.Cmp(maxEntryAmount) > 0 {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
