package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// ListAgencyIDs returns every agency that owns at least one account.
func (r *LedgerRepository) ListAgencyIDs(ctx context.Context) ([]string, error) {
	return r.queries.ListAgencyIDs(ctx)
}

// BalanceCheck compares one account's stored balance with its entries.
func (r *LedgerRepository) BalanceCheck(ctx context.Context, agencyID, accountID string) (*domain.BalanceCheck, error) {
	row, err := r.queries.GetCreditAccount(ctx, generated.GetCreditAccountParams{AgencyID: agencyID, ID: accountID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	sums, err := r.queries.SumCreditEntries(ctx, generated.SumCreditEntriesParams{AgencyID: agencyID, AccountID: &accountID})
	if err != nil {
		return nil, err
	}

	checks, err := buildBalanceChecks([]generated.CreditAccount{row}, sums)
	if err != nil {
		return nil, err
	}

	return checks[0], nil
}

// BalanceChecks compares every account of the agency with its entries.
func (r *LedgerRepository) BalanceChecks(ctx context.Context, agencyID string) ([]*domain.BalanceCheck, error) {
	accounts, err := r.queries.ListAgencyCreditAccounts(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	sums, err := r.queries.SumCreditEntries(ctx, generated.SumCreditEntriesParams{AgencyID: agencyID})
	if err != nil {
		return nil, err
	}

	return buildBalanceChecks(accounts, sums)
}

// buildBalanceChecks applies the document sign table to per-type sums.
func buildBalanceChecks(accounts []generated.CreditAccount, sums []generated.SumCreditEntriesRow) ([]*domain.BalanceCheck, error) {
	byAccount := make(map[string]*domain.BalanceCheck, len(accounts))
	checks := make([]*domain.BalanceCheck, 0, len(accounts))

	for _, a := range accounts {
		check := &domain.BalanceCheck{
			AccountID: a.ID,
			AgencyID:  a.AgencyID,
			Currency:  a.Currency,
			Recorded:  numericToMoney(a.Balance),
			Computed:  domain.ZeroMoney,
		}
		byAccount[a.ID] = check
		checks = append(checks, check)
	}

	for _, s := range sums {
		check, ok := byAccount[s.AccountID]
		if !ok {
			continue
		}

		signed, err := domain.SignedAmount(numericToMoney(s.Total), domain.DocumentType(s.DocumentType))
		if err != nil {
			return nil, err
		}

		check.Computed = check.Computed.Add(signed)
		check.EntryCount += s.EntryCount
	}

	return checks, nil
}
