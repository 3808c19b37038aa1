package usecase

import (
	"context"
	"time"

	"github.com/agencydesk/creditledger/internal/domain"
)

// Every repository method takes the caller's agency and must never return or
// touch rows of another agency. A row in another agency is reported as not found.

// CreditAccountRepository defines data access for credit accounts.
type CreditAccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.CreditAccount) error
	GetByID(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, agencyID, id string) (*domain.CreditAccount, error)
	// GetByIDsForUpdate locks in the order given; callers pass sorted ids.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, agencyID string, ids []string) ([]*domain.CreditAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, agencyID, id string, balance domain.Money, updatedAt time.Time) error
	SetEnabled(ctx context.Context, tx Transaction, agencyID, id string, enabled bool, updatedAt time.Time) error
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error)
}

// CreditEntryRepository defines data access for credit entries.
type CreditEntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.CreditEntry) error
	ListByDocumentForUpdate(ctx context.Context, tx Transaction, agencyID string, ref domain.DocumentRef) ([]*domain.CreditEntry, error)
	Delete(ctx context.Context, tx Transaction, agencyID, id string) error
	ListByAccount(ctx context.Context, agencyID, accountID string, limit, offset int) ([]*domain.CreditEntry, error)
}

// ReceiptRepository defines data access for receipts and their payment lines.
type ReceiptRepository interface {
	Create(ctx context.Context, tx Transaction, receipt *domain.Receipt) error
	GetByID(ctx context.Context, agencyID, id string) (*domain.Receipt, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, agencyID, id string) (*domain.Receipt, error)
	// Update rewrites the receipt row and replaces all of its payment lines.
	Update(ctx context.Context, tx Transaction, receipt *domain.Receipt) error
	Delete(ctx context.Context, tx Transaction, agencyID, id string) error
	List(ctx context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error)
}

// PaymentMethodRepository reads the agency's payment method catalogue.
type PaymentMethodRepository interface {
	GetByCodes(ctx context.Context, agencyID string, codes []string) (map[string]*domain.PaymentMethod, error)
}

// ClientPaymentRepository defines data access for payment-schedule lines.
type ClientPaymentRepository interface {
	ListByReceiptForUpdate(ctx context.Context, tx Transaction, agencyID, receiptID string) ([]*domain.ClientPayment, error)
	UpdateStatus(ctx context.Context, tx Transaction, payment *domain.ClientPayment) error
}

// PaymentAuditRepository appends client payment audit records.
type PaymentAuditRepository interface {
	Create(ctx context.Context, tx Transaction, audit *domain.ClientPaymentAudit) error
	ListByClientPayment(ctx context.Context, agencyID, clientPaymentID string) ([]*domain.ClientPaymentAudit, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// LedgerRepository runs ledger-wide consistency queries.
type LedgerRepository interface {
	ListAgencyIDs(ctx context.Context) ([]string, error)
	BalanceCheck(ctx context.Context, agencyID, accountID string) (*domain.BalanceCheck, error)
	BalanceChecks(ctx context.Context, agencyID string) ([]*domain.BalanceCheck, error)
}
