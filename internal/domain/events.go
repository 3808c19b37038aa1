package domain

import "time"

// Event types
const (
	EventTypeCreditAccountCreated  = "credit_account.created"
	EventTypeCreditAccountToggled  = "credit_account.toggled"
	EventTypeCreditEntryPosted     = "credit_entry.posted"
	EventTypeCreditEntriesReversed = "credit_entry.reversed"
	EventTypeReceiptCreated        = "receipt.created"
	EventTypeReceiptUpdated        = "receipt.updated"
	EventTypeReceiptDeleted        = "receipt.deleted"
)

// Aggregate types
const (
	AggregateTypeCreditAccount = "credit_account"
	AggregateTypeCreditEntry   = "credit_entry"
	AggregateTypeReceipt       = "receipt"
	AggregateTypeDocument      = "document"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AgencyID      string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CreditEntryPostedEvent payload
type CreditEntryPostedEvent struct {
	EntryID      string `json:"entry_id"`
	AccountID    string `json:"account_id"`
	DocumentType string `json:"document_type"`
	Source       string `json:"source,omitempty"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Balance      string `json:"balance"`
}

// CreditEntriesReversedEvent payload
type CreditEntriesReversedEvent struct {
	Source     string   `json:"source"`
	EntryIDs   []string `json:"entry_ids"`
	AccountIDs []string `json:"account_ids"`
}

// ReceiptEvent payload, shared by create, update and delete.
type ReceiptEvent struct {
	ReceiptID      string `json:"receipt_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	EntriesPosted  int    `json:"entries_posted"`
	EntriesRemoved int    `json:"entries_removed"`
	Reopened       int    `json:"payments_reopened"`
}

// CreditAccountEvent payload
type CreditAccountEvent struct {
	AccountID   string `json:"account_id"`
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	Currency    string `json:"currency"`
	Enabled     bool   `json:"enabled"`
}

// NewOutboxEvent builds an unpublished event scoped to an agency.
func NewOutboxEvent(agencyID, aggregateType, aggregateID, eventType string, payload map[string]any) *OutboxEvent {
	return &OutboxEvent{
		AgencyID:      agencyID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}
