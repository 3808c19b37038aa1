package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// ReversalUseCase removes every entry of a source document and undoes its
// effect on the owning accounts.
type ReversalUseCase struct {
	tx          txRunner
	accountRepo CreditAccountRepository
	entryRepo   CreditEntryRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       *balanceCache
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	accountRepo CreditAccountRepository,
	entryRepo CreditEntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *ReversalUseCase {
	return &ReversalUseCase{
		tx:          txRunner{txManager: txManager, timeout: DefaultTransactionTimeout},
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		logger:      zerolog.Nop(),
	}
}

func (uc *ReversalUseCase) WithRetrier(r Retrier) *ReversalUseCase {
	uc.tx.retrier = r
	return uc
}

func (uc *ReversalUseCase) WithTransactionTimeout(d time.Duration) *ReversalUseCase {
	uc.tx.timeout = d
	return uc
}

func (uc *ReversalUseCase) WithCache(c Cache, ttl time.Duration) *ReversalUseCase {
	uc.cache = &balanceCache{cache: c, ttl: ttl, logger: uc.logger, metrics: uc.metrics}
	return uc
}

func (uc *ReversalUseCase) WithMetrics(m *metrics.Metrics) *ReversalUseCase {
	uc.metrics = m
	if uc.cache != nil {
		uc.cache.metrics = m
	}
	return uc
}

func (uc *ReversalUseCase) WithLogger(l zerolog.Logger) *ReversalUseCase {
	uc.logger = l
	if uc.cache != nil {
		uc.cache.logger = l
	}
	return uc
}

// ReversalResult describes what a reversal removed.
type ReversalResult struct {
	Source  domain.DocumentRef
	Entries []*domain.CreditEntry
	// Deltas is the signed amount taken off each account's balance.
	Deltas map[string]domain.Money
}

// AccountIDs returns the touched accounts in sorted order.
func (r *ReversalResult) AccountIDs() []string {
	ids := make([]string, 0, len(r.Deltas))
	for id := range r.Deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReverseForDocumentTx runs inside the caller's transaction. A document with no
// entries left is a no-op, so repeating a reversal is safe.
func (uc *ReversalUseCase) ReverseForDocumentTx(ctx context.Context, tx Transaction, agencyID string, ref domain.DocumentRef) (*ReversalResult, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	result := &ReversalResult{Source: ref, Deltas: map[string]domain.Money{}}

	entries, err := uc.entryRepo.ListByDocumentForUpdate(ctx, tx, agencyID, ref)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return result, nil
	}

	// Lock accounts in sorted order (deadlock prevention)
	accountIDs := uniqueAccountIDs(entries)
	sort.Strings(accountIDs)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, agencyID, accountIDs)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(accountIDs) {
		return nil, fmt.Errorf("%w: reversing %s", domain.ErrAccountNotFound, ref)
	}

	accountMap := make(map[string]*domain.CreditAccount, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.ID] = acc
	}

	for _, entry := range entries {
		account := accountMap[entry.AccountID]
		if account == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, entry.AccountID)
		}

		delta, err := entry.Delta()
		if err != nil {
			return nil, err
		}

		account.Balance = account.RevertDelta(delta)

		result.Deltas[account.ID] = result.Deltas[account.ID].Add(delta)

		if err := uc.entryRepo.Delete(ctx, tx, agencyID, entry.ID); err != nil {
			return nil, err
		}

		result.Entries = append(result.Entries, entry)
	}

	now := time.Now().UTC()
	for _, id := range accountIDs {
		if err := uc.accountRepo.UpdateBalance(ctx, tx, agencyID, id, accountMap[id].Balance, now); err != nil {
			return nil, err
		}
	}

	entryIDs := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		entryIDs = append(entryIDs, e.ID)
	}

	event := domain.NewOutboxEvent(agencyID, domain.AggregateTypeDocument, ref.String(), domain.EventTypeCreditEntriesReversed, map[string]any{
		"source":      ref.String(),
		"entry_ids":   entryIDs,
		"account_ids": accountIDs,
	})
	event.ID = uc.idGen.Generate()
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return result, nil
}

// ReverseForDocument runs ReverseForDocumentTx in its own transaction.
func (uc *ReversalUseCase) ReverseForDocument(ctx context.Context, agencyID string, ref domain.DocumentRef) (*ReversalResult, error) {
	var result *ReversalResult
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		result, err = uc.ReverseForDocumentTx(txCtx, tx, agencyID, ref)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reverse %s: %w", ref, err)
	}

	uc.Committed(ctx, agencyID, result)

	uc.logger.Info().
		Str("agency_id", agencyID).
		Str("source", ref.String()).
		Int("entries", len(result.Entries)).
		Msg("document entries reversed")

	return result, nil
}

// Committed records metrics and drops cached balances once the reversal's
// transaction has committed.
func (uc *ReversalUseCase) Committed(ctx context.Context, agencyID string, result *ReversalResult) {
	if result == nil || len(result.Entries) == 0 {
		return
	}
	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Add(float64(len(result.Entries)))
	}
	uc.cache.invalidate(ctx, agencyID, result.AccountIDs()...)
}

func uniqueAccountIDs(entries []*domain.CreditEntry) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true
			ids = append(ids, e.AccountID)
		}
	}
	return ids
}
