package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
	"github.com/agencydesk/creditledger/internal/usecase"
)

const receiptColumns = `id, agency_id, booking_id, client_id, concept, amount, currency,
	base_amount, base_currency, counter_amount, counter_currency,
	issued_at, created_by, created_at, updated_at`

const paymentLineColumns = `id, receipt_id, amount, payment_method, credit_account_id, position`

// ReceiptRepository implements usecase.ReceiptRepository.
type ReceiptRepository struct {
	db generated.DBTX
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(db generated.DBTX) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create inserts the receipt and its payment lines.
func (r *ReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	db := tx.(*Tx).PgxTx()

	query := `INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := db.Exec(ctx, query,
		receipt.ID,
		receipt.AgencyID,
		receipt.BookingID,
		receipt.ClientID,
		receipt.Concept,
		moneyToNumeric(receipt.Amount),
		receipt.Currency,
		optionalMoneyToNumeric(receipt.BaseAmount),
		receipt.BaseCurrency,
		optionalMoneyToNumeric(receipt.CounterAmount),
		receipt.CounterCurrency,
		timeToPgTimestamptz(receipt.IssuedAt),
		receipt.CreatedBy,
		timeToPgTimestamptz(receipt.CreatedAt),
		timeToPgTimestamptz(receipt.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return insertPaymentLines(ctx, db, receipt)
}

// GetByID retrieves a receipt of the agency with its lines.
func (r *ReceiptRepository) GetByID(ctx context.Context, agencyID, id string) (*domain.Receipt, error) {
	return r.get(ctx, r.db, agencyID, id, false)
}

// GetByIDForUpdate retrieves and locks a receipt.
func (r *ReceiptRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, agencyID, id string) (*domain.Receipt, error) {
	return r.get(ctx, tx.(*Tx).PgxTx(), agencyID, id, true)
}

func (r *ReceiptRepository) get(ctx context.Context, db generated.DBTX, agencyID, id string, lock bool) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE agency_id = $1 AND id = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	row, err := scanReceipt(db.QueryRow(ctx, query, agencyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}

	receipt := rowToReceipt(row)

	lines, err := loadPaymentLines(ctx, db, []string{receipt.ID})
	if err != nil {
		return nil, err
	}
	receipt.Lines = lines[receipt.ID]

	return receipt, nil
}

// Update rewrites the receipt row and replaces its payment lines.
func (r *ReceiptRepository) Update(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	db := tx.(*Tx).PgxTx()

	query := `UPDATE receipts SET
		booking_id = $3, client_id = $4, concept = $5, amount = $6, currency = $7,
		base_amount = $8, base_currency = $9, counter_amount = $10, counter_currency = $11,
		issued_at = $12, updated_at = $13
		WHERE agency_id = $1 AND id = $2`

	tag, err := db.Exec(ctx, query,
		receipt.AgencyID,
		receipt.ID,
		receipt.BookingID,
		receipt.ClientID,
		receipt.Concept,
		moneyToNumeric(receipt.Amount),
		receipt.Currency,
		optionalMoneyToNumeric(receipt.BaseAmount),
		receipt.BaseCurrency,
		optionalMoneyToNumeric(receipt.CounterAmount),
		receipt.CounterCurrency,
		timeToPgTimestamptz(receipt.IssuedAt),
		timeToPgTimestamptz(receipt.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReceiptNotFound
	}

	if _, err := db.Exec(ctx, `DELETE FROM receipt_payment_lines WHERE receipt_id = $1`, receipt.ID); err != nil {
		return err
	}

	return insertPaymentLines(ctx, db, receipt)
}

// Delete removes the receipt. Its lines go with it.
func (r *ReceiptRepository) Delete(ctx context.Context, tx usecase.Transaction, agencyID, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM receipts WHERE agency_id = $1 AND id = $2`, agencyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

// List lists receipts of the agency, newest first.
func (r *ReceiptRepository) List(ctx context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error) {
	var (
		conditions = []string{"agency_id = $1"}
		args       = []any{filter.AgencyID}
	)

	if filter.BookingID != "" {
		args = append(args, filter.BookingID)
		conditions = append(conditions, fmt.Sprintf("booking_id = $%d", len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM receipts WHERE %s ORDER BY issued_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		receiptColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		receipts []*domain.Receipt
		ids      []string
	)
	for rows.Next() {
		row, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rowToReceipt(row))
		ids = append(ids, row.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*domain.Receipt{}, nil
	}

	lines, err := loadPaymentLines(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, receipt := range receipts {
		receipt.Lines = lines[receipt.ID]
	}

	return receipts, nil
}

func insertPaymentLines(ctx context.Context, db generated.DBTX, receipt *domain.Receipt) error {
	query := `INSERT INTO receipt_payment_lines (` + paymentLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range receipt.Lines {
		_, err := db.Exec(ctx, query,
			line.ID,
			receipt.ID,
			moneyToNumeric(line.Amount),
			line.PaymentMethod,
			line.CreditAccountID,
			int32(line.Position),
		)
		if err != nil {
			if hasPgCode(err, pgErrForeignKeyViolation) {
				return fmt.Errorf("%w: line %d", domain.ErrAccountNotFound, line.Position)
			}
			return err
		}
	}

	return nil
}

func loadPaymentLines(ctx context.Context, db generated.DBTX, receiptIDs []string) (map[string][]domain.ReceiptPaymentLine, error) {
	rows, err := db.Query(ctx,
		`SELECT `+paymentLineColumns+` FROM receipt_payment_lines WHERE receipt_id = ANY($1::text[]) ORDER BY receipt_id, position`,
		receiptIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.ReceiptPaymentLine, len(receiptIDs))
	for rows.Next() {
		var l generated.ReceiptPaymentLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.Amount, &l.PaymentMethod, &l.CreditAccountID, &l.Position); err != nil {
			return nil, err
		}
		result[l.ReceiptID] = append(result[l.ReceiptID], domain.ReceiptPaymentLine{
			ID:              l.ID,
			ReceiptID:       l.ReceiptID,
			Amount:          numericToMoney(l.Amount),
			PaymentMethod:   l.PaymentMethod,
			CreditAccountID: l.CreditAccountID,
			Position:        int(l.Position),
		})
	}

	return result, rows.Err()
}

func scanReceipt(row pgx.Row) (generated.Receipt, error) {
	var r generated.Receipt
	err := row.Scan(
		&r.ID,
		&r.AgencyID,
		&r.BookingID,
		&r.ClientID,
		&r.Concept,
		&r.Amount,
		&r.Currency,
		&r.BaseAmount,
		&r.BaseCurrency,
		&r.CounterAmount,
		&r.CounterCurrency,
		&r.IssuedAt,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func rowToReceipt(row generated.Receipt) *domain.Receipt {
	return &domain.Receipt{
		ID:              row.ID,
		AgencyID:        row.AgencyID,
		BookingID:       row.BookingID,
		ClientID:        row.ClientID,
		Concept:         row.Concept,
		Amount:          numericToMoney(row.Amount),
		Currency:        row.Currency,
		BaseAmount:      numericToOptionalMoney(row.BaseAmount),
		BaseCurrency:    row.BaseCurrency,
		CounterAmount:   numericToOptionalMoney(row.CounterAmount),
		CounterCurrency: row.CounterCurrency,
		IssuedAt:        row.IssuedAt.Time,
		CreatedBy:       row.CreatedBy,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
