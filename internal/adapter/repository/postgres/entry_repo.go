package postgres

import (
	"context"
	"fmt"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// CreditEntryRepository implements usecase.CreditEntryRepository.
type CreditEntryRepository struct {
	queries *generated.Queries
}

// NewCreditEntryRepository creates a new CreditEntryRepository.
func NewCreditEntryRepository(db generated.DBTX) *CreditEntryRepository {
	return &CreditEntryRepository{queries: generated.New(db)}
}

// Create inserts an entry.
func (r *CreditEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CreditEntry) error {
	err := txQueries(tx).CreateCreditEntry(ctx, generated.CreateCreditEntryParams{
		ID:            entry.ID,
		AgencyID:      entry.AgencyID,
		AccountID:     entry.AccountID,
		Amount:        moneyToNumeric(entry.Amount),
		Currency:      entry.Currency,
		DocumentType:  string(entry.DocumentType),
		ReceiptID:     entry.ReceiptID,
		InvestmentID:  entry.InvestmentID,
		OperatorDueID: entry.OperatorDueID,
		Concept:       entry.Concept,
		CreatedBy:     entry.CreatedBy,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if hasPgCode(err, pgErrForeignKeyViolation) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDocumentRef, err)
	}

	return err
}

// ListByDocumentForUpdate locks and returns every entry of one source document.
func (r *CreditEntryRepository) ListByDocumentForUpdate(ctx context.Context, tx usecase.Transaction, agencyID string, ref domain.DocumentRef) ([]*domain.CreditEntry, error) {
	q := txQueries(tx)
	id := ref.ID

	var (
		rows []generated.CreditEntry
		err  error
	)
	switch ref.Kind {
	case domain.SourceReceipt:
		rows, err = q.ListCreditEntriesByReceiptForUpdate(ctx, generated.ListCreditEntriesByReceiptForUpdateParams{AgencyID: agencyID, ReceiptID: &id})
	case domain.SourceInvestment:
		rows, err = q.ListCreditEntriesByInvestmentForUpdate(ctx, generated.ListCreditEntriesByInvestmentForUpdateParams{AgencyID: agencyID, InvestmentID: &id})
	case domain.SourceOperatorDue:
		rows, err = q.ListCreditEntriesByOperatorDueForUpdate(ctx, generated.ListCreditEntriesByOperatorDueForUpdateParams{AgencyID: agencyID, OperatorDueID: &id})
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidDocumentRef, ref.Kind)
	}
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// Delete removes one entry.
func (r *CreditEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, agencyID, id string) error {
	n, err := txQueries(tx).DeleteCreditEntry(ctx, generated.DeleteCreditEntryParams{AgencyID: agencyID, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByAccount lists an account's entries, newest first.
func (r *CreditEntryRepository) ListByAccount(ctx context.Context, agencyID, accountID string, limit, offset int) ([]*domain.CreditEntry, error) {
	rows, err := r.queries.ListCreditEntriesByAccount(ctx, generated.ListCreditEntriesByAccountParams{
		AgencyID:  agencyID,
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

func rowsToEntries(rows []generated.CreditEntry) []*domain.CreditEntry {
	entries := make([]*domain.CreditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.CreditEntry) *domain.CreditEntry {
	return &domain.CreditEntry{
		ID:            row.ID,
		AgencyID:      row.AgencyID,
		AccountID:     row.AccountID,
		Amount:        numericToMoney(row.Amount),
		Currency:      row.Currency,
		DocumentType:  domain.DocumentType(row.DocumentType),
		ReceiptID:     row.ReceiptID,
		InvestmentID:  row.InvestmentID,
		OperatorDueID: row.OperatorDueID,
		Concept:       row.Concept,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt.Time,
	}
}
