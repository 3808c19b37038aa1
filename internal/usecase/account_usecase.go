package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// AccountUseCase handles credit account business logic.
type AccountUseCase struct {
	tx          txRunner
	accountRepo CreditAccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       *balanceCache
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo CreditAccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		tx:          txRunner{txManager: txManager, timeout: DefaultTransactionTimeout},
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		logger:      zerolog.Nop(),
	}
}

// WithCache serves GetAccount from short-lived snapshots.
func (uc *AccountUseCase) WithCache(c Cache, ttl time.Duration) *AccountUseCase {
	uc.cache = &balanceCache{cache: c, ttl: ttl, logger: uc.logger, metrics: uc.metrics}
	return uc
}

func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	if uc.cache != nil {
		uc.cache.metrics = m
	}
	return uc
}

func (uc *AccountUseCase) WithLogger(l zerolog.Logger) *AccountUseCase {
	uc.logger = l
	if uc.cache != nil {
		uc.cache.logger = l
	}
	return uc
}

func (uc *AccountUseCase) WithRetrier(r Retrier) *AccountUseCase {
	uc.tx.retrier = r
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	SubjectType string
	SubjectID   string
	Currency    string
}

// CreateAccount opens a zero-balance account for a (subject, currency) pair.
// A second account for the same pair fails with ErrAccountAlreadyExists.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, principal domain.Principal, input CreateAccountInput) (*domain.CreditAccount, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.CreditAccount{
		ID:          uc.idGen.Generate(),
		AgencyID:    principal.AgencyID,
		SubjectType: domain.SubjectType(strings.ToLower(strings.TrimSpace(input.SubjectType))),
		SubjectID:   strings.TrimSpace(input.SubjectID),
		Currency:    domain.NormalizeCurrency(input.Currency),
		Balance:     domain.ZeroMoney,
		Enabled:     true,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(account.AgencyID, domain.AggregateTypeCreditAccount, account.ID, domain.EventTypeCreditAccountCreated, map[string]any{
			"account_id":   account.ID,
			"subject_type": string(account.SubjectType),
			"subject_id":   account.SubjectID,
			"currency":     account.Currency,
			"enabled":      account.Enabled,
		})
		event.ID = uc.idGen.Generate()
		return uc.outboxRepo.Create(txCtx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.logger.Info().
		Str("agency_id", account.AgencyID).
		Str("account_id", account.ID).
		Str("subject", string(account.SubjectType)+":"+account.SubjectID).
		Str("currency", account.Currency).
		Msg("credit account created")

	return account, nil
}

// GetAccount retrieves an account of the agency, from cache when possible.
func (uc *AccountUseCase) GetAccount(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error) {
	if account, ok := uc.cache.get(ctx, agencyID, id); ok {
		return account, nil
	}

	account, err := uc.accountRepo.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}

	// A posting may have committed and invalidated between the read and the
	// put. Re-read and drop the snapshot if the version moved.
	if uc.cache.put(ctx, account) {
		current, err := uc.accountRepo.GetByID(ctx, agencyID, id)
		if err != nil || current.Version != account.Version {
			uc.cache.invalidate(ctx, agencyID, id)
		}
		if err == nil {
			account = current
		}
	}

	return account, nil
}

// ListAccounts lists accounts of the agency.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	if filter.Currency != "" {
		filter.Currency = domain.NormalizeCurrency(filter.Currency)
	}
	return uc.accountRepo.List(ctx, filter)
}

// SetEnabled enables or disables an account. Balance and entries are untouched.
func (uc *AccountUseCase) SetEnabled(ctx context.Context, principal domain.Principal, id string, enabled bool) (*domain.CreditAccount, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	var account *domain.CreditAccount
	err := uc.tx.run(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, err = uc.accountRepo.GetByIDForUpdate(txCtx, tx, principal.AgencyID, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.accountRepo.SetEnabled(txCtx, tx, principal.AgencyID, id, enabled, now); err != nil {
			return err
		}
		account.Enabled = enabled
		account.UpdatedAt = now

		event := domain.NewOutboxEvent(account.AgencyID, domain.AggregateTypeCreditAccount, account.ID, domain.EventTypeCreditAccountToggled, map[string]any{
			"account_id": account.ID,
			"enabled":    enabled,
			"changed_by": principal.UserID,
		})
		event.ID = uc.idGen.Generate()
		return uc.outboxRepo.Create(txCtx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.invalidate(ctx, principal.AgencyID, id)

	if uc.metrics != nil {
		op := "disable"
		if enabled {
			op = "enable"
		}
		uc.metrics.AccountOperations.WithLabelValues(op).Inc()
	}

	return account, nil
}
