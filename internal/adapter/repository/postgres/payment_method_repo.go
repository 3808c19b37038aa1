package postgres

import (
	"context"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres/generated"
)

// PaymentMethodRepository implements usecase.PaymentMethodRepository.
type PaymentMethodRepository struct {
	db generated.DBTX
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository.
func NewPaymentMethodRepository(db generated.DBTX) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// GetByCodes returns the agency's methods keyed by code. Unknown codes are absent.
func (r *PaymentMethodRepository) GetByCodes(ctx context.Context, agencyID string, codes []string) (map[string]*domain.PaymentMethod, error) {
	rows, err := r.db.Query(ctx,
		`SELECT agency_id, code, name, requires_account, enabled FROM payment_methods WHERE agency_id = $1 AND code = ANY($2::text[])`,
		agencyID, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := make(map[string]*domain.PaymentMethod, len(codes))
	for rows.Next() {
		var m generated.PaymentMethod
		if err := rows.Scan(&m.AgencyID, &m.Code, &m.Name, &m.RequiresAccount, &m.Enabled); err != nil {
			return nil, err
		}
		methods[m.Code] = &domain.PaymentMethod{
			Code:            m.Code,
			Name:            m.Name,
			RequiresAccount: m.RequiresAccount,
			Enabled:         m.Enabled,
		}
	}

	return methods, rows.Err()
}
