package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

var accountColumns = []string{"id", "agency_id", "subject_type", "subject_id", "currency", "balance", "enabled", "version", "created_at", "updated_at"}

func num(s string) any {
	return moneyToNumeric(domain.MustParseMoney(s))
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	mock.ExpectBegin()
	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func TestCreditAccountRepository_CreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCreditAccountRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO credit_accounts").
		WithArgs("acc-1", "agency-a", "client", "c-1", "ARS", pgxmock.AnyArg(), true, int64(0), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "credit_accounts_subject_currency_key"})

	err := repo.Create(context.Background(), tx, &domain.CreditAccount{
		ID: "acc-1", AgencyID: "agency-a", SubjectType: domain.SubjectClient, SubjectID: "c-1",
		Currency: "ARS", Balance: domain.ZeroMoney, Enabled: true,
	})
	require.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
	assertExpectations(t, mock)
}

func TestCreditAccountRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCreditAccountRepository(mock)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM credit_accounts WHERE agency_id = \\$1 AND id = \\$2").
		WithArgs("agency-a", "acc-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "agency-a", "operator", "op-9", "USD", num("-12.50"), true, int64(4), timeToPgTimestamptz(now), timeToPgTimestamptz(now)))

	acc, err := repo.GetByID(context.Background(), "agency-a", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectOperator, acc.SubjectType)
	assert.Equal(t, "-12.50", acc.Balance.String())
	assert.Equal(t, int64(4), acc.Version)
	assert.Equal(t, now, acc.CreatedAt)

	mock.ExpectQuery("FROM credit_accounts").
		WithArgs("agency-b", "acc-1").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "agency-b", "acc-1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assertExpectations(t, mock)
}

func TestCreditAccountRepository_UpdateBalanceMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCreditAccountRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("UPDATE credit_accounts").
		WithArgs("agency-a", "acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateBalance(context.Background(), tx, "agency-a", "acc-1", domain.MustParseMoney("10"), time.Now())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assertExpectations(t, mock)
}

func TestCreditEntryRepository_ListByDocumentForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCreditEntryRepository(mock)
	tx := beginTx(t, mock)

	receiptID := "r-1"
	columns := []string{"id", "agency_id", "account_id", "amount", "currency", "document_type", "receipt_id", "investment_id", "operator_due_id", "concept", "created_by", "created_at"}

	mock.ExpectQuery("FROM credit_entries WHERE agency_id = \\$1 AND receipt_id = \\$2 (.+) FOR UPDATE").
		WithArgs("agency-a", &receiptID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("e-1", "agency-a", "acc-1", num("150"), "ARS", "receipt", &receiptID, nil, nil, "pago", "user-a", timeToPgTimestamptz(time.Now())))

	entries, err := repo.ListByDocumentForUpdate(context.Background(), tx, "agency-a", domain.ReceiptRef("r-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	ref, ok := entries[0].Source()
	require.True(t, ok)
	assert.Equal(t, domain.ReceiptRef("r-1"), ref)
	assert.Equal(t, domain.DocumentTypeReceipt, entries[0].DocumentType)
	assert.Equal(t, "150.00", entries[0].Amount.String())
	assertExpectations(t, mock)
}

func TestCreditEntryRepository_DeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCreditEntryRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("DELETE FROM credit_entries").
		WithArgs("agency-a", "e-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.Delete(context.Background(), tx, "agency-a", "e-1"), domain.ErrEntryNotFound)
	assertExpectations(t, mock)
}

func TestReceiptRepository_CreateWritesLines(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReceiptRepository(mock)
	tx := beginTx(t, mock)

	account := "acc-1"
	receipt := &domain.Receipt{
		ID: "r-1", AgencyID: "agency-a", Concept: "pago", Amount: domain.MustParseMoney("100"), Currency: "ARS",
		IssuedAt: time.Now(), CreatedBy: "user-a", CreatedAt: time.Now(), UpdatedAt: time.Now(),
		Lines: []domain.ReceiptPaymentLine{
			{ID: "l-1", Amount: domain.MustParseMoney("60"), PaymentMethod: "cash", Position: 1},
			{ID: "l-2", Amount: domain.MustParseMoney("40"), PaymentMethod: "credit", CreditAccountID: &account, Position: 2},
		},
	}

	mock.ExpectExec("INSERT INTO receipts").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO receipt_payment_lines").
		WithArgs("l-1", "r-1", pgxmock.AnyArg(), "cash", (*string)(nil), int32(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO receipt_payment_lines").
		WithArgs("l-2", "r-1", pgxmock.AnyArg(), "credit", &account, int32(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), tx, receipt))
	assertExpectations(t, mock)
}

func TestReceiptRepository_DeleteOtherAgency(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReceiptRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("DELETE FROM receipts").
		WithArgs("agency-b", "r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.Delete(context.Background(), tx, "agency-b", "r-1"), domain.ErrReceiptNotFound)
	assertExpectations(t, mock)
}

func TestPaymentMethodRepository_GetByCodes(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPaymentMethodRepository(mock)

	mock.ExpectQuery("FROM payment_methods").
		WithArgs("agency-a", []string{"cash", "credit", "bitcoin"}).
		WillReturnRows(pgxmock.NewRows([]string{"agency_id", "code", "name", "requires_account", "enabled"}).
			AddRow("agency-a", "cash", "Efectivo", false, true).
			AddRow("agency-a", "credit", "Saldo a favor", true, true))

	methods, err := repo.GetByCodes(context.Background(), "agency-a", []string{"cash", "credit", "bitcoin"})
	require.NoError(t, err)
	assert.Len(t, methods, 2)
	assert.True(t, methods["credit"].RequiresAccount)
	assert.NotContains(t, methods, "bitcoin")
	assertExpectations(t, mock)
}

func TestLedgerRepository_BalanceChecksAppliesSigns(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLedgerRepository(mock)
	now := timeToPgTimestamptz(time.Now())

	mock.ExpectQuery("FROM credit_accounts WHERE agency_id = \\$1 ORDER BY id").
		WithArgs("agency-a").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "agency-a", "client", "c-1", "ARS", num("110"), true, int64(2), now, now).
			AddRow("acc-2", "agency-a", "client", "c-2", "ARS", num("5"), true, int64(0), now, now))

	mock.ExpectQuery("FROM credit_entries").
		WithArgs("agency-a", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "document_type", "total", "entry_count"}).
			AddRow("acc-1", "investment", num("40"), int64(1)).
			AddRow("acc-1", "receipt", num("150"), int64(2)))

	checks, err := repo.BalanceChecks(context.Background(), "agency-a")
	require.NoError(t, err)
	require.Len(t, checks, 2)

	assert.Equal(t, "110.00", checks[0].Computed.String())
	assert.Equal(t, int64(3), checks[0].EntryCount)
	assert.True(t, checks[0].Consistent())

	assert.Equal(t, "0.00", checks[1].Computed.String())
	assert.False(t, checks[1].Consistent())
	assertExpectations(t, mock)
}

func TestOutboxRepository_CreateAssignsID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOutboxRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(pgxmock.AnyArg(), "agency-a", "acc-1", domain.AggregateTypeCreditAccount, domain.EventTypeCreditAccountCreated,
			pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	event := domain.NewOutboxEvent("agency-a", domain.AggregateTypeCreditAccount, "acc-1", domain.EventTypeCreditAccountCreated, map[string]any{"currency": "ARS"})
	require.NoError(t, repo.Create(context.Background(), tx, event))

	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assertExpectations(t, mock)
}
