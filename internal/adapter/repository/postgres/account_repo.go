package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// CreditAccountRepository implements usecase.CreditAccountRepository.
type CreditAccountRepository struct {
	queries *generated.Queries
}

// NewCreditAccountRepository creates a new CreditAccountRepository.
func NewCreditAccountRepository(db generated.DBTX) *CreditAccountRepository {
	return &CreditAccountRepository{queries: generated.New(db)}
}

// Create inserts an account. A second account for the same agency, subject
// and currency violates credit_accounts_subject_currency_key.
func (r *CreditAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.CreditAccount) error {
	err := txQueries(tx).CreateCreditAccount(ctx, generated.CreateCreditAccountParams{
		ID:          account.ID,
		AgencyID:    account.AgencyID,
		SubjectType: string(account.SubjectType),
		SubjectID:   account.SubjectID,
		Currency:    account.Currency,
		Balance:     moneyToNumeric(account.Balance),
		Enabled:     account.Enabled,
		Version:     account.Version,
		CreatedAt:   timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(account.UpdatedAt),
	})
	if hasPgCode(err, pgErrUniqueViolation) {
		return domain.ErrAccountAlreadyExists
	}

	return err
}

// GetByID retrieves an account of the agency.
func (r *CreditAccountRepository) GetByID(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error) {
	row, err := r.queries.GetCreditAccount(ctx, generated.GetCreditAccountParams{AgencyID: agencyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account with a FOR UPDATE lock.
func (r *CreditAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, agencyID, id string) (*domain.CreditAccount, error) {
	row, err := txQueries(tx).GetCreditAccountForUpdate(ctx, generated.GetCreditAccountForUpdateParams{AgencyID: agencyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks several accounts ordered by id. Accounts of other
// agencies are simply absent from the result.
func (r *CreditAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, agencyID string, ids []string) ([]*domain.CreditAccount, error) {
	rows, err := txQueries(tx).GetCreditAccountsForUpdate(ctx, generated.GetCreditAccountsForUpdateParams{
		AgencyID: agencyID,
		Column2:  ids,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.CreditAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance stores a new balance and bumps the version.
func (r *CreditAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, agencyID, id string, balance domain.Money, updatedAt time.Time) error {
	n, err := txQueries(tx).UpdateCreditAccountBalance(ctx, generated.UpdateCreditAccountBalanceParams{
		AgencyID:  agencyID,
		ID:        id,
		Balance:   moneyToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetEnabled flips the enabled flag.
func (r *CreditAccountRepository) SetEnabled(ctx context.Context, tx usecase.Transaction, agencyID, id string, enabled bool, updatedAt time.Time) error {
	n, err := txQueries(tx).SetCreditAccountEnabled(ctx, generated.SetCreditAccountEnabledParams{
		AgencyID:  agencyID,
		ID:        id,
		Enabled:   enabled,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts of one agency with optional filters.
func (r *CreditAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error) {
	rows, err := r.queries.ListCreditAccounts(ctx, generated.ListCreditAccountsParams{
		AgencyID:    filter.AgencyID,
		SubjectType: optionalString(string(filter.SubjectType)),
		SubjectID:   optionalString(filter.SubjectID),
		Currency:    optionalString(filter.Currency),
		Limit:       int32(filter.Limit),
		Offset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.CreditAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.CreditAccount) *domain.CreditAccount {
	return &domain.CreditAccount{
		ID:          row.ID,
		AgencyID:    row.AgencyID,
		SubjectType: domain.SubjectType(row.SubjectType),
		SubjectID:   row.SubjectID,
		Currency:    row.Currency,
		Balance:     numericToMoney(row.Balance),
		Enabled:     row.Enabled,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
