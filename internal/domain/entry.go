package domain

import (
	"fmt"
	"time"
)

// CreditEntry is one posted movement on a credit account. Amount is a
// magnitude; the effect on the balance is Amount times the DocumentType sign.
// Entries are never edited, only deleted by a reversal of their source document.
type CreditEntry struct {
	ID            string
	AgencyID      string
	AccountID     string
	Amount        Money
	Currency      string
	DocumentType  DocumentType
	ReceiptID     *string
	InvestmentID  *string
	OperatorDueID *string
	Concept       string
	CreatedBy     string
	CreatedAt     time.Time
}

// Delta is the signed effect of the entry on its account balance.
func (e *CreditEntry) Delta() (Money, error) {
	return SignedAmount(e.Amount, e.DocumentType)
}

// SetSource links the entry to exactly one source document.
func (e *CreditEntry) SetSource(ref DocumentRef) {
	e.ReceiptID, e.InvestmentID, e.OperatorDueID = nil, nil, nil

	id := ref.ID
	switch ref.Kind {
	case SourceReceipt:
		e.ReceiptID = &id
	case SourceInvestment:
		e.InvestmentID = &id
	case SourceOperatorDue:
		e.OperatorDueID = &id
	}
}

// Source returns the document the entry belongs to, if any.
func (e *CreditEntry) Source() (DocumentRef, bool) {
	switch {
	case e.ReceiptID != nil:
		return ReceiptRef(*e.ReceiptID), true
	case e.InvestmentID != nil:
		return InvestmentRef(*e.InvestmentID), true
	case e.OperatorDueID != nil:
		return OperatorDueRef(*e.OperatorDueID), true
	}
	return DocumentRef{}, false
}

// Validate checks the entry before it is inserted.
func (e *CreditEntry) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if _, err := e.DocumentType.Sign(); err != nil {
		return err
	}

	refs := 0
	for _, ref := range []*string{e.ReceiptID, e.InvestmentID, e.OperatorDueID} {
		if ref != nil {
			refs++
		}
	}
	if refs > 1 {
		return fmt.Errorf("%w: entry references %d documents", ErrInvalidDocumentRef, refs)
	}

	return ValidateCurrency(e.Currency)
}

// BalanceCheck compares a stored balance with the signed sum of its entries.
type BalanceCheck struct {
	AccountID  string
	AgencyID   string
	Currency   string
	Recorded   Money
	Computed   Money
	EntryCount int64
}

// Difference is Recorded minus Computed.
func (c BalanceCheck) Difference() Money {
	return c.Recorded.Sub(c.Computed)
}

// Consistent reports whether the stored balance matches the entries.
func (c BalanceCheck) Consistent() bool {
	return c.Recorded.Equal(c.Computed)
}
