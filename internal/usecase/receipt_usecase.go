package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// ReceiptUseCase is the only path that creates, edits or deletes receipts, so
// their credit entries always match the persisted receipt.
type ReceiptUseCase struct {
	tx                txRunner
	receiptRepo       ReceiptRepository
	paymentMethodRepo PaymentMethodRepository
	clientPaymentRepo ClientPaymentRepository
	auditRepo         PaymentAuditRepository
	outboxRepo        OutboxRepository
	posting           *PostingUseCase
	reversal          *ReversalUseCase
	idGen             IDGenerator
	metrics           *metrics.Metrics
	logger            zerolog.Logger
}

// NewReceiptUseCase creates a new ReceiptUseCase.
func NewReceiptUseCase(
	txManager TransactionManager,
	receiptRepo ReceiptRepository,
	paymentMethodRepo PaymentMethodRepository,
	clientPaymentRepo ClientPaymentRepository,
	auditRepo PaymentAuditRepository,
	outboxRepo OutboxRepository,
	posting *PostingUseCase,
	reversal *ReversalUseCase,
	idGen IDGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		tx:                txRunner{txManager: txManager, timeout: DefaultTransactionTimeout},
		receiptRepo:       receiptRepo,
		paymentMethodRepo: paymentMethodRepo,
		clientPaymentRepo: clientPaymentRepo,
		auditRepo:         auditRepo,
		outboxRepo:        outboxRepo,
		posting:           posting,
		reversal:          reversal,
		idGen:             idGen,
		logger:            zerolog.Nop(),
	}
}

// WithRetrier retries the whole workflow transaction on serialization failures and deadlocks.
func (uc *ReceiptUseCase) WithRetrier(r Retrier) *ReceiptUseCase {
	uc.tx.retrier = r
	return uc
}

func (uc *ReceiptUseCase) WithTransactionTimeout(d time.Duration) *ReceiptUseCase {
	uc.tx.timeout = d
	return uc
}

func (uc *ReceiptUseCase) WithMetrics(m *metrics.Metrics) *ReceiptUseCase {
	uc.metrics = m
	return uc
}

func (uc *ReceiptUseCase) WithLogger(l zerolog.Logger) *ReceiptUseCase {
	uc.logger = l
	return uc
}

// ReceiptInput carries the editable fields of a receipt. Create and update take
// the full desired state.
type ReceiptInput struct {
	BookingID       *string
	ClientID        *string
	Concept         string
	Amount          domain.Money
	Currency        string
	BaseAmount      *domain.Money
	BaseCurrency    *string
	CounterAmount   *domain.Money
	CounterCurrency *string
	IssuedAt        *time.Time
	Lines           []PaymentLineInput
}

// PaymentLineInput is one payment line of a receipt.
type PaymentLineInput struct {
	Amount          domain.Money
	PaymentMethod   string
	CreditAccountID *string
}

// receiptChange is what one workflow run did to the ledger.
type receiptChange struct {
	receipt  *domain.Receipt
	posted   []*domain.CreditEntry
	reversal *ReversalResult
	reopened int
}

func (c *receiptChange) reset() {
	c.receipt, c.posted, c.reversal, c.reopened = nil, nil, nil, 0
}

const (
	receiptOpCreate = "create"
	receiptOpUpdate = "update"
	receiptOpDelete = "delete"
)

// CreateReceipt persists a receipt and posts one receipt entry per credit line.
// Any failure rolls everything back, including the receipt row.
func (uc *ReceiptUseCase) CreateReceipt(ctx context.Context, principal domain.Principal, in ReceiptInput) (*domain.Receipt, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	receipt := uc.buildReceipt(principal, uc.idGen.Generate(), in, now)

	if err := uc.validate(ctx, receipt); err != nil {
		uc.record(receiptOpCreate, err, now)
		return nil, err
	}

	var change receiptChange
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		change.reset()
		// Line ids are regenerated per attempt so a retried insert never collides.
		uc.assignLineIDs(receipt)

		if err := uc.receiptRepo.Create(txCtx, tx, receipt); err != nil {
			return err
		}

		posted, err := uc.postLines(txCtx, tx, principal, receipt)
		if err != nil {
			return err
		}
		change.receipt = receipt
		change.posted = posted

		return uc.emit(txCtx, tx, domain.EventTypeReceiptCreated, &change)
	})
	uc.record(receiptOpCreate, err, now)
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, principal, receiptOpCreate, &change)
	return receipt, nil
}

// UpdateReceipt reverses the receipt's current entries, reopens the schedule
// lines it had paid, stores the new state and posts entries for it.
func (uc *ReceiptUseCase) UpdateReceipt(ctx context.Context, principal domain.Principal, id string, in ReceiptInput) (*domain.Receipt, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := uc.buildReceipt(principal, id, in, now)

	if err := uc.validate(ctx, updated); err != nil {
		uc.record(receiptOpUpdate, err, now)
		return nil, err
	}

	var change receiptChange
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		change.reset()
		uc.assignLineIDs(updated)

		existing, err := uc.receiptRepo.GetByIDForUpdate(txCtx, tx, principal.AgencyID, id)
		if err != nil {
			return err
		}

		change.reversal, err = uc.reversal.ReverseForDocumentTx(txCtx, tx, principal.AgencyID, domain.ReceiptRef(id))
		if err != nil {
			return err
		}

		change.reopened, err = uc.reopenPayments(txCtx, tx, principal, id, domain.ReopenReasonReceiptEdited)
		if err != nil {
			return err
		}

		updated.CreatedAt = existing.CreatedAt
		updated.CreatedBy = existing.CreatedBy
		if in.IssuedAt == nil {
			updated.IssuedAt = existing.IssuedAt
		}

		if err := uc.receiptRepo.Update(txCtx, tx, updated); err != nil {
			return err
		}

		change.posted, err = uc.postLines(txCtx, tx, principal, updated)
		if err != nil {
			return err
		}
		change.receipt = updated

		return uc.emit(txCtx, tx, domain.EventTypeReceiptUpdated, &change)
	})
	uc.record(receiptOpUpdate, err, now)
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, principal, receiptOpUpdate, &change)
	return updated, nil
}

// DeleteReceipt reverses the receipt's entries, reopens the schedule lines it
// had paid and removes the receipt.
func (uc *ReceiptUseCase) DeleteReceipt(ctx context.Context, principal domain.Principal, id string) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	var change receiptChange
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		change.reset()

		existing, err := uc.receiptRepo.GetByIDForUpdate(txCtx, tx, principal.AgencyID, id)
		if err != nil {
			return err
		}

		change.reversal, err = uc.reversal.ReverseForDocumentTx(txCtx, tx, principal.AgencyID, domain.ReceiptRef(id))
		if err != nil {
			return err
		}

		change.reopened, err = uc.reopenPayments(txCtx, tx, principal, id, domain.ReopenReasonReceiptDeleted)
		if err != nil {
			return err
		}

		if err := uc.receiptRepo.Delete(txCtx, tx, principal.AgencyID, id); err != nil {
			return err
		}
		change.receipt = existing

		return uc.emit(txCtx, tx, domain.EventTypeReceiptDeleted, &change)
	})
	uc.record(receiptOpDelete, err, now)
	if err != nil {
		return err
	}

	uc.committed(ctx, principal, receiptOpDelete, &change)
	return nil
}

// GetReceipt returns a receipt of the caller's agency.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, agencyID, id string) (*domain.Receipt, error) {
	return uc.receiptRepo.GetByID(ctx, agencyID, id)
}

// ListReceipts lists receipts of the caller's agency.
func (uc *ReceiptUseCase) ListReceipts(ctx context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.receiptRepo.List(ctx, filter)
}

func (uc *ReceiptUseCase) buildReceipt(principal domain.Principal, id string, in ReceiptInput, now time.Time) *domain.Receipt {
	issuedAt := now
	if in.IssuedAt != nil {
		issuedAt = in.IssuedAt.UTC()
	}

	receipt := &domain.Receipt{
		ID:              id,
		AgencyID:        principal.AgencyID,
		BookingID:       in.BookingID,
		ClientID:        in.ClientID,
		Concept:         strings.TrimSpace(in.Concept),
		Amount:          in.Amount,
		Currency:        domain.NormalizeCurrency(in.Currency),
		BaseAmount:      in.BaseAmount,
		BaseCurrency:    normalizeOptionalCurrency(in.BaseCurrency),
		CounterAmount:   in.CounterAmount,
		CounterCurrency: normalizeOptionalCurrency(in.CounterCurrency),
		IssuedAt:        issuedAt,
		CreatedBy:       principal.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for i, l := range in.Lines {
		receipt.Lines = append(receipt.Lines, domain.ReceiptPaymentLine{
			ReceiptID:       id,
			Amount:          l.Amount,
			PaymentMethod:   strings.ToLower(strings.TrimSpace(l.PaymentMethod)),
			CreditAccountID: l.CreditAccountID,
			Position:        i + 1,
		})
	}

	return receipt
}

func (uc *ReceiptUseCase) assignLineIDs(receipt *domain.Receipt) {
	for i := range receipt.Lines {
		receipt.Lines[i].ID = uc.idGen.Generate()
	}
}

// validate checks the receipt and its payment methods before any write.
func (uc *ReceiptUseCase) validate(ctx context.Context, receipt *domain.Receipt) error {
	if err := receipt.Validate(); err != nil {
		return err
	}

	if len(receipt.Lines) == 0 {
		return nil
	}

	codes := make([]string, 0, len(receipt.Lines))
	for _, l := range receipt.Lines {
		codes = append(codes, l.PaymentMethod)
	}

	methods, err := uc.paymentMethodRepo.GetByCodes(ctx, receipt.AgencyID, codes)
	if err != nil {
		return err
	}

	for _, l := range receipt.Lines {
		method, ok := methods[l.PaymentMethod]
		if !ok || !method.Enabled {
			return fmt.Errorf("%w: line %d: %q", domain.ErrUnknownPaymentMethod, l.Position, l.PaymentMethod)
		}
		if method.RequiresAccount && l.CreditAccountID == nil {
			return fmt.Errorf("%w: line %d: %s requires a credit account", domain.ErrInvalidPaymentLine, l.Position, method.Code)
		}
	}

	return nil
}

func (uc *ReceiptUseCase) postLines(ctx context.Context, tx Transaction, principal domain.Principal, receipt *domain.Receipt) ([]*domain.CreditEntry, error) {
	ref := domain.ReceiptRef(receipt.ID)

	// Same lock order as reversals.
	lines := receipt.CreditLines()
	sort.SliceStable(lines, func(i, j int) bool {
		return *lines[i].CreditAccountID < *lines[j].CreditAccountID
	})

	var posted []*domain.CreditEntry
	for _, line := range lines {
		result, err := uc.posting.PostTx(ctx, tx, principal.AgencyID, PostInput{
			AccountID:    *line.CreditAccountID,
			Amount:       line.Amount,
			Currency:     receipt.Currency,
			DocumentType: string(domain.DocumentTypeReceipt),
			Source:       &ref,
			Concept:      receipt.Concept,
			CreatedBy:    principal.UserID,
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.Position, err)
		}
		posted = append(posted, result.Entry)
	}

	return posted, nil
}

// reopenPayments resets every paid schedule line settled by the receipt and
// appends one audit record per line.
func (uc *ReceiptUseCase) reopenPayments(ctx context.Context, tx Transaction, principal domain.Principal, receiptID, reason string) (int, error) {
	payments, err := uc.clientPaymentRepo.ListByReceiptForUpdate(ctx, tx, principal.AgencyID, receiptID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	reopened := 0
	for _, p := range payments {
		if p.Status != domain.ClientPaymentPaid {
			continue
		}

		from, to, err := p.Reopen(now)
		if err != nil {
			return 0, err
		}

		if err := uc.clientPaymentRepo.UpdateStatus(ctx, tx, p); err != nil {
			return 0, err
		}

		audit := &domain.ClientPaymentAudit{
			ID:              uc.idGen.Generate(),
			ClientPaymentID: p.ID,
			AgencyID:        principal.AgencyID,
			Action:          domain.AuditActionReceiptDeletedReopen,
			FromStatus:      from,
			ToStatus:        to,
			Reason:          reason,
			ChangedBy:       principal.UserID,
			Data:            domain.JSON{"receipt_id": receiptID},
			CreatedAt:       now,
		}
		if err := uc.auditRepo.Create(ctx, tx, audit); err != nil {
			return 0, err
		}
		reopened++
	}

	return reopened, nil
}

func (uc *ReceiptUseCase) emit(ctx context.Context, tx Transaction, eventType string, change *receiptChange) error {
	removed := 0
	if change.reversal != nil {
		removed = len(change.reversal.Entries)
	}

	event := domain.NewOutboxEvent(change.receipt.AgencyID, domain.AggregateTypeReceipt, change.receipt.ID, eventType, map[string]any{
		"receipt_id":        change.receipt.ID,
		"amount":            change.receipt.Amount.String(),
		"currency":          change.receipt.Currency,
		"entries_posted":    len(change.posted),
		"entries_removed":   removed,
		"payments_reopened": change.reopened,
	})
	event.ID = uc.idGen.Generate()

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *ReceiptUseCase) committed(ctx context.Context, principal domain.Principal, op string, change *receiptChange) {
	uc.reversal.Committed(ctx, principal.AgencyID, change.reversal)
	uc.posting.Committed(ctx, principal.AgencyID, change.posted...)

	if uc.metrics != nil && change.reopened > 0 {
		uc.metrics.PaymentsReopened.Add(float64(change.reopened))
	}

	touched := map[string]bool{}
	if change.reversal != nil {
		for _, id := range change.reversal.AccountIDs() {
			touched[id] = true
		}
	}
	for _, e := range change.posted {
		touched[e.AccountID] = true
	}
	accounts := make([]string, 0, len(touched))
	for id := range touched {
		accounts = append(accounts, id)
	}
	sort.Strings(accounts)

	uc.logger.Info().
		Str("agency_id", principal.AgencyID).
		Str("user_id", principal.UserID).
		Str("receipt_id", change.receipt.ID).
		Str("operation", op).
		Int("entries_posted", len(change.posted)).
		Int("payments_reopened", change.reopened).
		Strs("accounts", accounts).
		Msg("receipt reconciled")
}

func (uc *ReceiptUseCase) record(op string, err error, start time.Time) {
	if uc.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = errorKind(err)
	}

	uc.metrics.ReceiptOperations.WithLabelValues(op, status).Inc()
	uc.metrics.ReceiptDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func normalizeOptionalCurrency(c *string) *string {
	if c == nil {
		return nil
	}
	n := domain.NormalizeCurrency(*c)
	return &n
}
