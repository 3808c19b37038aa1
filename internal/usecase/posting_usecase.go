package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// PostingUseCase is the single write path that adds entries to credit accounts.
type PostingUseCase struct {
	tx            txRunner
	accountRepo   CreditAccountRepository
	entryRepo     CreditEntryRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	cache         *balanceCache
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	allowDisabled bool
}

// NewPostingUseCase creates a new PostingUseCase. Disabled accounts accept
// postings unless WithDisabledAccountPolicy(false) is applied.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo CreditAccountRepository,
	entryRepo CreditEntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		tx:            txRunner{txManager: txManager, timeout: DefaultTransactionTimeout},
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		logger:        zerolog.Nop(),
		allowDisabled: true,
	}
}

// WithRetrier retries standalone postings on serialization failures and deadlocks.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.tx.retrier = r
	return uc
}

// WithTransactionTimeout overrides DefaultTransactionTimeout.
func (uc *PostingUseCase) WithTransactionTimeout(d time.Duration) *PostingUseCase {
	uc.tx.timeout = d
	return uc
}

// WithCache invalidates cached account snapshots after each commit.
func (uc *PostingUseCase) WithCache(c Cache, ttl time.Duration) *PostingUseCase {
	uc.cache = &balanceCache{cache: c, ttl: ttl, logger: uc.logger, metrics: uc.metrics}
	return uc
}

func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	if uc.cache != nil {
		uc.cache.metrics = m
	}
	return uc
}

func (uc *PostingUseCase) WithLogger(l zerolog.Logger) *PostingUseCase {
	uc.logger = l
	if uc.cache != nil {
		uc.cache.logger = l
	}
	return uc
}

// WithDisabledAccountPolicy sets whether disabled accounts accept postings.
func (uc *PostingUseCase) WithDisabledAccountPolicy(allow bool) *PostingUseCase {
	uc.allowDisabled = allow
	return uc
}

// PostInput is one posting. Amount is a magnitude; the sign comes from DocumentType.
type PostInput struct {
	AccountID    string
	Amount       domain.Money
	Currency     string
	DocumentType string
	Source       *domain.DocumentRef
	Concept      string
	CreatedBy    string
}

// PostResult is the entry written and the account balance after it.
type PostResult struct {
	Entry   *domain.CreditEntry
	Balance domain.Money
}

func (in PostInput) validate() (domain.DocumentType, error) {
	docType, err := domain.ParseDocumentType(in.DocumentType)
	if err != nil {
		return "", err
	}

	if err := domain.ValidateAmount(in.Amount); err != nil {
		return "", err
	}

	if err := domain.ValidateCurrency(in.Currency); err != nil {
		return "", err
	}

	if in.Source != nil {
		if err := in.Source.Validate(); err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(in.AccountID) == "" {
		return "", domain.ErrAccountNotFound
	}

	return docType, nil
}

// PostTx writes one entry and moves the account balance inside the caller's
// transaction. The account row stays locked until the caller commits.
func (uc *PostingUseCase) PostTx(ctx context.Context, tx Transaction, agencyID string, in PostInput) (*PostResult, error) {
	docType, err := in.validate()
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, agencyID, in.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.CheckCurrency(in.Currency); err != nil {
		return nil, err
	}

	if err := account.CheckPostable(uc.allowDisabled); err != nil {
		return nil, err
	}

	delta, err := domain.SignedAmount(in.Amount, docType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = systemActor
	}

	entry := &domain.CreditEntry{
		ID:           uc.idGen.Generate(),
		AgencyID:     agencyID,
		AccountID:    account.ID,
		Amount:       in.Amount,
		Currency:     account.Currency,
		DocumentType: docType,
		Concept:      in.Concept,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
	if in.Source != nil {
		entry.SetSource(*in.Source)
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDelta(delta)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, agencyID, account.ID, newBalance, now); err != nil {
		return nil, err
	}
	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = now

	source := ""
	if ref, ok := entry.Source(); ok {
		source = ref.String()
	}

	event := domain.NewOutboxEvent(agencyID, domain.AggregateTypeCreditAccount, account.ID, domain.EventTypeCreditEntryPosted, map[string]any{
		"entry_id":      entry.ID,
		"account_id":    account.ID,
		"document_type": string(docType),
		"source":        source,
		"amount":        entry.Amount.String(),
		"currency":      entry.Currency,
		"balance":       newBalance.String(),
	})
	event.ID = uc.idGen.Generate()
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return &PostResult{Entry: entry, Balance: newBalance}, nil
}

// Post runs PostTx in its own transaction.
func (uc *PostingUseCase) Post(ctx context.Context, agencyID string, in PostInput) (*PostResult, error) {
	start := time.Now()

	var result *PostResult
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		result, err = uc.PostTx(txCtx, tx, agencyID, in)
		return err
	})
	if err != nil {
		uc.recordError(err)
		return nil, fmt.Errorf("post %s to account %s: %w", in.DocumentType, in.AccountID, err)
	}

	uc.Committed(ctx, agencyID, result.Entry)

	if uc.metrics != nil {
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("agency_id", agencyID).
		Str("account_id", result.Entry.AccountID).
		Str("entry_id", result.Entry.ID).
		Str("document_type", string(result.Entry.DocumentType)).
		Str("amount", result.Entry.Amount.String()).
		Str("balance", result.Balance.String()).
		Msg("credit entry posted")

	return result, nil
}

// Committed records metrics and drops cached balances for entries whose
// transaction has committed. Callers of PostTx invoke it after Commit.
func (uc *PostingUseCase) Committed(ctx context.Context, agencyID string, entries ...*domain.CreditEntry) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AccountID)
		if uc.metrics != nil {
			uc.metrics.EntriesPosted.WithLabelValues(string(e.DocumentType)).Inc()
		}
	}
	uc.cache.invalidate(ctx, agencyID, ids...)
}

func (uc *PostingUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PostingErrors.WithLabelValues(errorKind(err)).Inc()
}

func errorKind(err error) string {
	switch {
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "internal"
	}
}
