package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// PaymentAuditRepository implements client payment audit persistence.
type PaymentAuditRepository struct {
	db generated.DBTX
}

// NewPaymentAuditRepository creates a new audit repository
func NewPaymentAuditRepository(db generated.DBTX) *PaymentAuditRepository {
	return &PaymentAuditRepository{db: db}
}

// Create appends an audit record inside the caller's transaction.
func (r *PaymentAuditRepository) Create(ctx context.Context, tx usecase.Transaction, audit *domain.ClientPaymentAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}

	data := audit.Data
	if data == nil {
		data = domain.JSON{}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO client_payment_audits (
			id, client_payment_id, agency_id, action, from_status, to_status,
			reason, changed_by, data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		audit.ID,
		audit.ClientPaymentID,
		audit.AgencyID,
		audit.Action,
		string(audit.FromStatus),
		string(audit.ToStatus),
		audit.Reason,
		audit.ChangedBy,
		dataJSON,
		timeToPgTimestamptz(audit.CreatedAt),
	)

	return err
}

// ListByClientPayment returns a line's audit trail, oldest first.
func (r *PaymentAuditRepository) ListByClientPayment(ctx context.Context, agencyID, clientPaymentID string) ([]*domain.ClientPaymentAudit, error) {
	query := `
		SELECT id, client_payment_id, agency_id, action, from_status, to_status,
		       reason, changed_by, data, created_at
		FROM client_payment_audits
		WHERE agency_id = $1 AND client_payment_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, agencyID, clientPaymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*domain.ClientPaymentAudit
	for rows.Next() {
		var row generated.ClientPaymentAudit

		err := rows.Scan(
			&row.ID,
			&row.ClientPaymentID,
			&row.AgencyID,
			&row.Action,
			&row.FromStatus,
			&row.ToStatus,
			&row.Reason,
			&row.ChangedBy,
			&row.Data,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		audit := &domain.ClientPaymentAudit{
			ID:              row.ID,
			ClientPaymentID: row.ClientPaymentID,
			AgencyID:        row.AgencyID,
			Action:          row.Action,
			FromStatus:      domain.ClientPaymentStatus(row.FromStatus),
			ToStatus:        domain.ClientPaymentStatus(row.ToStatus),
			Reason:          row.Reason,
			ChangedBy:       row.ChangedBy,
			CreatedAt:       row.CreatedAt.Time,
		}
		if row.Data != nil {
			_ = json.Unmarshal(row.Data, &audit.Data)
		}

		audits = append(audits, audit)
	}

	return audits, rows.Err()
}
