package dto

import (
	"time"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// CreateAccountRequest represents a request to create a credit account.
type CreateAccountRequest struct {
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	Currency    string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		SubjectType: r.SubjectType,
		SubjectID:   r.SubjectID,
		Currency:    r.Currency,
	}
}

// UpdateAccountRequest toggles an account.
type UpdateAccountRequest struct {
	Enabled *bool `json:"enabled"`
}

// ManualEntryRequest posts an adjustment, investment or operator due.
type ManualEntryRequest struct {
	Amount        domain.Money `json:"amount"`
	Currency      string       `json:"currency"`
	DocumentType  string       `json:"document_type"`
	InvestmentID  *string      `json:"investment_id,omitempty"`
	OperatorDueID *string      `json:"operator_due_id,omitempty"`
	Concept       string       `json:"concept"`
}

// ToUseCaseInput converts to use case input for accountID.
func (r *ManualEntryRequest) ToUseCaseInput(accountID string) usecase.ManualPostingInput {
	return usecase.ManualPostingInput{
		AccountID:     accountID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		DocumentType:  r.DocumentType,
		InvestmentID:  r.InvestmentID,
		OperatorDueID: r.OperatorDueID,
		Concept:       r.Concept,
	}
}

// ReceiptRequest is the body of receipt create and edit calls.
type ReceiptRequest struct {
	BookingID       *string              `json:"booking_id,omitempty"`
	ClientID        *string              `json:"client_id,omitempty"`
	Concept         string               `json:"concept"`
	Amount          domain.Money         `json:"amount"`
	Currency        string               `json:"currency"`
	BaseAmount      *domain.Money        `json:"base_amount,omitempty"`
	BaseCurrency    *string              `json:"base_currency,omitempty"`
	CounterAmount   *domain.Money        `json:"counter_amount,omitempty"`
	CounterCurrency *string              `json:"counter_currency,omitempty"`
	IssuedAt        *time.Time           `json:"issued_at,omitempty"`
	Payments        []PaymentLineRequest `json:"payments"`
}

// PaymentLineRequest is one payment line of a receipt.
type PaymentLineRequest struct {
	Amount          domain.Money `json:"amount"`
	PaymentMethod   string       `json:"payment_method"`
	CreditAccountID *string      `json:"credit_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReceiptRequest) ToUseCaseInput() usecase.ReceiptInput {
	lines := make([]usecase.PaymentLineInput, len(r.Payments))
	for i, p := range r.Payments {
		lines[i] = usecase.PaymentLineInput{
			Amount:          p.Amount,
			PaymentMethod:   p.PaymentMethod,
			CreditAccountID: p.CreditAccountID,
		}
	}

	return usecase.ReceiptInput{
		BookingID:       r.BookingID,
		ClientID:        r.ClientID,
		Concept:         r.Concept,
		Amount:          r.Amount,
		Currency:        r.Currency,
		BaseAmount:      r.BaseAmount,
		BaseCurrency:    r.BaseCurrency,
		CounterAmount:   r.CounterAmount,
		CounterCurrency: r.CounterCurrency,
		IssuedAt:        r.IssuedAt,
		Lines:           lines,
	}
}
