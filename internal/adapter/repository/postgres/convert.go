package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/agencydesk/creditledger/internal/domain"
)

// Type conversion helpers.
func moneyToNumeric(m domain.Money) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(m.String())

	return n
}

func optionalMoneyToNumeric(m *domain.Money) pgtype.Numeric {
	if m == nil {
		return pgtype.Numeric{}
	}
	return moneyToNumeric(*m)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d := decimal.NewFromBigInt(n.Int, n.Exp)

	return d
}

func numericToMoney(n pgtype.Numeric) domain.Money {
	return domain.NewMoney(numericToDecimal(n))
}

func numericToOptionalMoney(n pgtype.Numeric) *domain.Money {
	if !n.Valid {
		return nil
	}
	m := numericToMoney(n)
	return &m
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimeToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func pgTimestamptzToOptionalTime(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
