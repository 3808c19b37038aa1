package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// ClientPaymentRepository implements usecase.ClientPaymentRepository.
type ClientPaymentRepository struct{}

// NewClientPaymentRepository creates a new ClientPaymentRepository.
func NewClientPaymentRepository() *ClientPaymentRepository {
	return &ClientPaymentRepository{}
}

// ListByReceiptForUpdate locks the schedule lines linked to a receipt.
func (r *ClientPaymentRepository) ListByReceiptForUpdate(ctx context.Context, tx usecase.Transaction, agencyID, receiptID string) ([]*domain.ClientPayment, error) {
	rows, err := tx.(*Tx).PgxTx().Query(ctx, `
		SELECT id, agency_id, booking_id, client_id, amount, currency, due_date, status, paid_at, receipt_id, updated_at
		FROM client_payments
		WHERE agency_id = $1 AND receipt_id = $2
		ORDER BY id
		FOR UPDATE`,
		agencyID, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.ClientPayment
	for rows.Next() {
		var p generated.ClientPayment
		if err := rows.Scan(
			&p.ID,
			&p.AgencyID,
			&p.BookingID,
			&p.ClientID,
			&p.Amount,
			&p.Currency,
			&p.DueDate,
			&p.Status,
			&p.PaidAt,
			&p.ReceiptID,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, rowToClientPayment(p))
	}

	return payments, rows.Err()
}

// UpdateStatus writes the status, payment date and receipt link of a line.
func (r *ClientPaymentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, payment *domain.ClientPayment) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `
		UPDATE client_payments
		SET status = $3, paid_at = $4, receipt_id = $5, updated_at = $6
		WHERE agency_id = $1 AND id = $2`,
		payment.AgencyID,
		payment.ID,
		string(payment.Status),
		optionalTimeToPgTimestamptz(payment.PaidAt),
		payment.ReceiptID,
		timeToPgTimestamptz(payment.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientPaymentNotFound
	}
	return nil
}

func rowToClientPayment(p generated.ClientPayment) *domain.ClientPayment {
	return &domain.ClientPayment{
		ID:        p.ID,
		AgencyID:  p.AgencyID,
		BookingID: p.BookingID,
		ClientID:  p.ClientID,
		Amount:    numericToMoney(p.Amount),
		Currency:  p.Currency,
		DueDate:   dateToTime(p.DueDate),
		Status:    domain.ClientPaymentStatus(p.Status),
		PaidAt:    pgTimestamptzToOptionalTime(p.PaidAt),
		ReceiptID: p.ReceiptID,
		UpdatedAt: p.UpdatedAt.Time,
	}
}

func dateToTime(d pgtype.Date) (t time.Time) {
	if d.Valid {
		t = d.Time
	}
	return t
}
