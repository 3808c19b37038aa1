package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubjectType says whose balance a credit account tracks.
type SubjectType string

const (
	SubjectClient   SubjectType = "client"
	SubjectOperator SubjectType = "operator"
)

// IsValid reports whether t is client or operator.
func (t SubjectType) IsValid() bool {
	return t == SubjectClient || t == SubjectOperator
}

// CreditAccount is the running balance of one client or operator in one currency.
// Balance always equals the signed sum of the account's entries.
type CreditAccount struct {
	ID          string
	AgencyID    string
	SubjectType SubjectType
	SubjectID   string
	Currency    string
	Balance     Money
	Enabled     bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the account has one subject and a known currency.
func (a *CreditAccount) Validate() error {
	if strings.TrimSpace(a.AgencyID) == "" {
		return fmt.Errorf("%w: missing agency", ErrInvalidSubject)
	}
	if !a.SubjectType.IsValid() {
		return fmt.Errorf("%w: subject type %q", ErrInvalidSubject, a.SubjectType)
	}
	if strings.TrimSpace(a.SubjectID) == "" {
		return fmt.Errorf("%w: missing subject id", ErrInvalidSubject)
	}
	return ValidateCurrency(a.Currency)
}

// CheckCurrency rejects entries in a currency other than the account's.
func (a *CreditAccount) CheckCurrency(currency string) error {
	if NormalizeCurrency(currency) != a.Currency {
		return fmt.Errorf("%w: account %s is %s, entry is %s", ErrCurrencyMismatch, a.ID, a.Currency, NormalizeCurrency(currency))
	}
	return nil
}

// CheckPostable applies the disabled-account policy.
func (a *CreditAccount) CheckPostable(allowDisabled bool) error {
	if !a.Enabled && !allowDisabled {
		return fmt.Errorf("%w: %s", ErrAccountDisabled, a.ID)
	}
	return nil
}

// ApplyDelta returns the balance after adding a signed delta.
func (a *CreditAccount) ApplyDelta(delta Money) Money {
	return a.Balance.Add(delta)
}

// RevertDelta returns the balance after undoing a signed delta.
func (a *CreditAccount) RevertDelta(delta Money) Money {
	return a.Balance.Sub(delta)
}

// AccountFilter narrows account listings within one agency.
type AccountFilter struct {
	AgencyID    string
	SubjectType SubjectType
	SubjectID   string
	Currency    string
	Limit       int
	Offset      int
}
