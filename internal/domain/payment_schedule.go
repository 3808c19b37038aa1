package domain

import (
	"fmt"
	"time"
)

// ClientPaymentStatus is the state of a payment-schedule line.
type ClientPaymentStatus string

const (
	ClientPaymentPending   ClientPaymentStatus = "PENDING"
	ClientPaymentPaid      ClientPaymentStatus = "PAID"
	ClientPaymentCancelled ClientPaymentStatus = "CANCELLED"
)

// ClientPayment is one instalment a client owes for a booking. A paid line
// may point at the receipt that settled it.
type ClientPayment struct {
	ID        string
	AgencyID  string
	BookingID string
	ClientID  string
	Amount    Money
	Currency  string
	DueDate   time.Time
	Status    ClientPaymentStatus
	PaidAt    *time.Time
	ReceiptID *string
	UpdatedAt time.Time
}

// Reopen moves a paid line back to pending and unlinks its receipt.
func (p *ClientPayment) Reopen(at time.Time) (from, to ClientPaymentStatus, err error) {
	if p.Status == ClientPaymentCancelled {
		return "", "", fmt.Errorf("%w: %s is cancelled", ErrInvalidStatusChange, p.ID)
	}

	from = p.Status
	p.Status = ClientPaymentPending
	p.PaidAt = nil
	p.ReceiptID = nil
	p.UpdatedAt = at

	return from, p.Status, nil
}

// Audit actions recorded on client payments.
const (
	AuditActionReceiptDeletedReopen = "RECEIPT_DELETED_REOPEN"
)

// Reopen reasons.
const (
	ReopenReasonReceiptEdited  = "receipt edited"
	ReopenReasonReceiptDeleted = "receipt deleted"
)

// ClientPaymentAudit is an append-only record of a status change.
type ClientPaymentAudit struct {
	ID              string
	ClientPaymentID string
	AgencyID        string
	Action          string
	FromStatus      ClientPaymentStatus
	ToStatus        ClientPaymentStatus
	Reason          string
	ChangedBy       string
	Data            JSON
	CreatedAt       time.Time
}

// JSON is free-form structured data stored alongside audit and outbox rows.
type JSON map[string]any
