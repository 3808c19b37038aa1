package domain

import (
	"fmt"
	"strings"
	"time"
)

// Receipt records money received for a booking. Lines that point at a credit
// account each produce one receipt entry on that account.
type Receipt struct {
	ID              string
	AgencyID        string
	BookingID       *string
	ClientID        *string
	Concept         string
	Amount          Money
	Currency        string
	BaseAmount      *Money
	BaseCurrency    *string
	CounterAmount   *Money
	CounterCurrency *string
	IssuedAt        time.Time
	CreatedBy       string
	Lines           []ReceiptPaymentLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReceiptPaymentLine is one payment method used to settle part of a receipt.
type ReceiptPaymentLine struct {
	ID              string
	ReceiptID       string
	Amount          Money
	PaymentMethod   string
	CreditAccountID *string
	Position        int
}

// Validate checks the line on its own.
func (l ReceiptPaymentLine) Validate() error {
	if err := ValidateAmount(l.Amount); err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrInvalidPaymentLine, l.Position, err)
	}
	if strings.TrimSpace(l.PaymentMethod) == "" {
		return fmt.Errorf("%w: line %d: payment method is required", ErrInvalidPaymentLine, l.Position)
	}
	if l.CreditAccountID != nil && strings.TrimSpace(*l.CreditAccountID) == "" {
		return fmt.Errorf("%w: line %d: empty credit account id", ErrInvalidPaymentLine, l.Position)
	}
	return nil
}

// PostsCredit reports whether the line settles against a credit account.
func (l ReceiptPaymentLine) PostsCredit() bool {
	return l.CreditAccountID != nil
}

// Validate checks the receipt and its lines without touching storage.
func (r *Receipt) Validate() error {
	if strings.TrimSpace(r.AgencyID) == "" {
		return fmt.Errorf("%w: missing agency", ErrInvalidReceipt)
	}
	if strings.TrimSpace(r.Concept) == "" {
		return fmt.Errorf("%w: concept is required", ErrInvalidReceipt)
	}
	if len(r.Concept) > MaxConceptLen {
		return fmt.Errorf("%w: concept exceeds %d characters", ErrInvalidReceipt, MaxConceptLen)
	}
	if err := ValidateAmount(r.Amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	if err := ValidateCurrency(r.Currency); err != nil {
		return err
	}
	if err := r.validateExchange(); err != nil {
		return err
	}
	if len(r.Lines) > MaxPaymentLines {
		return fmt.Errorf("%w: more than %d payment lines", ErrInvalidReceipt, MaxPaymentLines)
	}

	total := ZeroMoney
	for _, line := range r.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
		total = total.Add(line.Amount)
	}

	if len(r.Lines) > 0 && !total.Equal(r.Amount) {
		return fmt.Errorf("%w: lines sum %s, receipt is %s", ErrReceiptAmountMismatch, total, r.Amount)
	}

	return nil
}

// validateExchange requires base and counter values to come in complete pairs.
func (r *Receipt) validateExchange() error {
	if (r.BaseAmount == nil) != (r.BaseCurrency == nil) {
		return fmt.Errorf("%w: base amount and base currency go together", ErrInvalidReceipt)
	}
	if (r.CounterAmount == nil) != (r.CounterCurrency == nil) {
		return fmt.Errorf("%w: counter amount and counter currency go together", ErrInvalidReceipt)
	}
	if r.BaseAmount != nil {
		if err := ValidateAmount(*r.BaseAmount); err != nil {
			return fmt.Errorf("%w: base amount: %w", ErrInvalidReceipt, err)
		}
		if err := ValidateCurrency(*r.BaseCurrency); err != nil {
			return err
		}
	}
	if r.CounterAmount != nil {
		if err := ValidateAmount(*r.CounterAmount); err != nil {
			return fmt.Errorf("%w: counter amount: %w", ErrInvalidReceipt, err)
		}
		if err := ValidateCurrency(*r.CounterCurrency); err != nil {
			return err
		}
	}
	return nil
}

// CreditLines returns the lines that post to credit accounts, in order.
func (r *Receipt) CreditLines() []ReceiptPaymentLine {
	var lines []ReceiptPaymentLine
	for _, l := range r.Lines {
		if l.PostsCredit() {
			lines = append(lines, l)
		}
	}
	return lines
}

// PaymentMethod is an entry of the agency's payment method catalogue.
type PaymentMethod struct {
	Code            string
	Name            string
	RequiresAccount bool
	Enabled         bool
}

// ReceiptFilter narrows receipt listings within one agency.
type ReceiptFilter struct {
	AgencyID  string
	BookingID string
	Limit     int
	Offset    int
}
