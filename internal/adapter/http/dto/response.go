package dto

import (
	"time"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// AccountResponse represents a credit account in API responses.
type AccountResponse struct {
	ID          string       `json:"id"`
	SubjectType string       `json:"subject_type"`
	SubjectID   string       `json:"subject_id"`
	Currency    string       `json:"currency"`
	Balance     domain.Money `json:"balance"`
	Enabled     bool         `json:"enabled"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.CreditAccount) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		SubjectType: string(a.SubjectType),
		SubjectID:   a.SubjectID,
		Currency:    a.Currency,
		Balance:     a.Balance,
		Enabled:     a.Enabled,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.CreditAccount) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a credit entry in API responses.
type EntryResponse struct {
	ID            string       `json:"id"`
	AccountID     string       `json:"account_id"`
	Amount        domain.Money `json:"amount"`
	Currency      string       `json:"currency"`
	DocumentType  string       `json:"document_type"`
	ReceiptID     *string      `json:"receipt_id,omitempty"`
	InvestmentID  *string      `json:"investment_id,omitempty"`
	OperatorDueID *string      `json:"operator_due_id,omitempty"`
	Concept       string       `json:"concept"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.CreditEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Amount:        e.Amount,
		Currency:      e.Currency,
		DocumentType:  string(e.DocumentType),
		ReceiptID:     e.ReceiptID,
		InvestmentID:  e.InvestmentID,
		OperatorDueID: e.OperatorDueID,
		Concept:       e.Concept,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.CreditEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a list of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// PostingResponse is returned by manual postings.
type PostingResponse struct {
	Entry   *EntryResponse `json:"entry"`
	Balance domain.Money   `json:"balance"`
}

// PostingFromResult converts a posting result to response.
func PostingFromResult(r *usecase.PostResult) *PostingResponse {
	return &PostingResponse{Entry: EntryFromDomain(r.Entry), Balance: r.Balance}
}

// ReversalResponse summarizes entries removed for a source document.
type ReversalResponse struct {
	Source         string                  `json:"source"`
	EntriesRemoved int                     `json:"entries_removed"`
	Deltas         map[string]domain.Money `json:"deltas"`
}

// ReversalFromResult converts a reversal result to response.
func ReversalFromResult(r *usecase.ReversalResult) *ReversalResponse {
	deltas := make(map[string]domain.Money, len(r.Deltas))
	for id, d := range r.Deltas {
		deltas[id] = d
	}
	return &ReversalResponse{
		Source:         r.Source.String(),
		EntriesRemoved: len(r.Entries),
		Deltas:         deltas,
	}
}

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID              string                 `json:"id"`
	BookingID       *string                `json:"booking_id,omitempty"`
	ClientID        *string                `json:"client_id,omitempty"`
	Concept         string                 `json:"concept"`
	Amount          domain.Money           `json:"amount"`
	Currency        string                 `json:"currency"`
	BaseAmount      *domain.Money          `json:"base_amount,omitempty"`
	BaseCurrency    *string                `json:"base_currency,omitempty"`
	CounterAmount   *domain.Money          `json:"counter_amount,omitempty"`
	CounterCurrency *string                `json:"counter_currency,omitempty"`
	IssuedAt        time.Time              `json:"issued_at"`
	CreatedBy       string                 `json:"created_by"`
	Payments        []*PaymentLineResponse `json:"payments"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// PaymentLineResponse is one payment line of a receipt.
type PaymentLineResponse struct {
	ID              string       `json:"id"`
	Amount          domain.Money `json:"amount"`
	PaymentMethod   string       `json:"payment_method"`
	CreditAccountID *string      `json:"credit_account_id,omitempty"`
	Position        int          `json:"position"`
}

// ReceiptFromDomain converts domain receipt to response.
func ReceiptFromDomain(r *domain.Receipt) *ReceiptResponse {
	lines := make([]*PaymentLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = &PaymentLineResponse{
			ID:              l.ID,
			Amount:          l.Amount,
			PaymentMethod:   l.PaymentMethod,
			CreditAccountID: l.CreditAccountID,
			Position:        l.Position,
		}
	}

	return &ReceiptResponse{
		ID:              r.ID,
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
		CreatedBy:       r.CreatedBy,
		Payments:        lines,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ListReceiptsResponse represents a list of receipts.
type ListReceiptsResponse struct {
	Receipts []*ReceiptResponse `json:"receipts"`
	Total    int64              `json:"total"`
}

// ReconciliationResponse reports one account check.
type ReconciliationResponse struct {
	AccountID         string       `json:"account_id"`
	Currency          string       `json:"currency"`
	RecordedBalance   domain.Money `json:"recorded_balance"`
	CalculatedBalance domain.Money `json:"calculated_balance"`
	Difference        domain.Money `json:"difference"`
	EntryCount        int64        `json:"entry_count"`
	IsReconciled      bool         `json:"is_reconciled"`
	LastChecked       time.Time    `json:"last_checked"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		Currency:          r.Currency,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		EntryCount:        r.EntryCount,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ConsistencyReportResponse is the agency-wide reconciliation report.
type ConsistencyReportResponse struct {
	AgencyID           string                    `json:"agency_id"`
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	LedgerConsistent   bool                      `json:"ledger_consistent"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ConsistencyReportFromDomain converts a report to response.
func ConsistencyReportFromDomain(r *usecase.ReconciliationReport) *ConsistencyReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}
	return &ConsistencyReportResponse{
		AgencyID:           r.AgencyID,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		LedgerConsistent:   r.LedgerConsistent,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
