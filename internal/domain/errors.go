package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("credit account not found")
	ErrAccountAlreadyExists = errors.New("credit account already exists for subject and currency")
	ErrAccountDisabled      = errors.New("credit account is disabled")
	ErrInvalidSubject       = errors.New("credit account must belong to exactly one client or operator")

	// Amount and currency errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrCurrencyMismatch    = errors.New("entry currency does not match account currency")

	// Ledger errors
	ErrUnknownDocumentType    = errors.New("unknown document type")
	ErrDocumentTypeNotAllowed = errors.New("document type cannot be posted manually")
	ErrInvalidDocumentRef     = errors.New("invalid source document reference")
	ErrEntryNotFound          = errors.New("credit entry not found")

	// Receipt errors
	ErrReceiptNotFound       = errors.New("receipt not found")
	ErrInvalidReceipt        = errors.New("invalid receipt")
	ErrInvalidPaymentLine    = errors.New("invalid payment line")
	ErrUnknownPaymentMethod  = errors.New("unknown or disabled payment method")
	ErrReceiptAmountMismatch = errors.New("receipt amount does not match the sum of its payment lines")

	// Payment schedule errors
	ErrClientPaymentNotFound = errors.New("client payment not found")
	ErrInvalidStatusChange   = errors.New("invalid client payment status change")
)

var validationErrors = []error{
	ErrAccountAlreadyExists,
	ErrAccountDisabled,
	ErrInvalidSubject,
	ErrInvalidAmount,
	ErrInvalidAmountFormat,
	ErrCurrencyMismatch,
	ErrInvalidCurrency,
	ErrUnknownDocumentType,
	ErrDocumentTypeNotAllowed,
	ErrInvalidDocumentRef,
	ErrInvalidReceipt,
	ErrInvalidPaymentLine,
	ErrUnknownPaymentMethod,
	ErrReceiptAmountMismatch,
	ErrInvalidStatusChange,
	ErrAmountTooLarge,
	ErrAmountTooSmall,
}

var notFoundErrors = []error{
	ErrAccountNotFound,
	ErrEntryNotFound,
	ErrReceiptNotFound,
	ErrClientPaymentNotFound,
}

// IsValidation reports whether err is a caller input error. Nothing is written
// when one is returned.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the resource does not exist in the
// caller's agency. Cross-tenant lookups also land here.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
