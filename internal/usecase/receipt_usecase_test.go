package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

func creditReceipt(amount, accountID string) usecase.ReceiptInput {
	return usecase.ReceiptInput{
		BookingID: ptr("booking-1"),
		Concept:   "Pago a cuenta",
		Amount:    money(amount),
		Currency:  "ARS",
		Lines: []usecase.PaymentLineInput{
			{Amount: money(amount), PaymentMethod: "credit", CreditAccountID: ptr(accountID)},
		},
	}
}

func TestReceiptUseCase_RoundTrip(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150.00", "acc-x"))
	require.NoError(t, err)
	assert.Equal(t, "150.00", h.balance(t, "acc-x"))
	require.Len(t, h.entriesFor(domain.ReceiptRef(r.ID)), 1)

	_, err = h.receiptUC.UpdateReceipt(bg, principalA, r.ID, creditReceipt("200.00", "acc-x"))
	require.NoError(t, err)
	assert.Equal(t, "200.00", h.balance(t, "acc-x"))
	entries := h.entriesFor(domain.ReceiptRef(r.ID))
	require.Len(t, entries, 1)
	assert.Equal(t, "200.00", entries[0].Amount.String())

	require.NoError(t, h.receiptUC.DeleteReceipt(bg, principalA, r.ID))
	assert.Equal(t, "0.00", h.balance(t, "acc-x"))
	assert.Empty(t, h.entriesFor(domain.ReceiptRef(r.ID)))

	_, ok := h.store.Receipt(r.ID)
	assert.False(t, ok)
	h.requireInvariant(t, "acc-x")
}

func TestReceiptUseCase_CreateMixedLines(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")
	h.seedAccount("acc-y", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, usecase.ReceiptInput{
		Concept:  "Saldo reserva",
		Amount:   money("300"),
		Currency: "ars",
		Lines: []usecase.PaymentLineInput{
			{Amount: money("100"), PaymentMethod: "CASH"},
			{Amount: money("120"), PaymentMethod: "credit", CreditAccountID: ptr("acc-x")},
			{Amount: money("80"), PaymentMethod: "credit", CreditAccountID: ptr("acc-y")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ARS", r.Currency)
	assert.Equal(t, "user-a", r.CreatedBy)
	require.Len(t, r.Lines, 3)
	assert.Equal(t, "cash", r.Lines[0].PaymentMethod)
	assert.Equal(t, "120.00", h.balance(t, "acc-x"))
	assert.Equal(t, "80.00", h.balance(t, "acc-y"))
	assert.Len(t, h.entriesFor(domain.ReceiptRef(r.ID)), 2)

	stored, ok := h.store.Receipt(r.ID)
	require.True(t, ok)
	assert.Len(t, stored.Lines, 3)
	h.requireInvariant(t, "acc-x", "acc-y")
}

func TestReceiptUseCase_LocksCreditAccountsInIDOrder(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-a", agencyA, domain.SubjectClient, "ARS", "0")
	h.seedAccount("acc-b", agencyA, domain.SubjectClient, "ARS", "0")

	var locked []string
	h.accounts.GetByIDFunc = func(_ context.Context, agencyID, id string) (*domain.CreditAccount, error) {
		locked = append(locked, id)
		acc, ok := h.store.Account(id)
		if !ok || acc.AgencyID != agencyID {
			return nil, domain.ErrAccountNotFound
		}
		return &acc, nil
	}

	_, err := h.receiptUC.CreateReceipt(bg, principalA, usecase.ReceiptInput{
		Concept:  "Pago dividido",
		Amount:   money("50"),
		Currency: "ARS",
		Lines: []usecase.PaymentLineInput{
			{Amount: money("30"), PaymentMethod: "credit", CreditAccountID: ptr("acc-b")},
			{Amount: money("20"), PaymentMethod: "credit", CreditAccountID: ptr("acc-a")},
		},
	})
	require.NoError(t, err)

	require.NotEmpty(t, locked)
	assert.IsNonDecreasing(t, locked)
	assert.Equal(t, "20.00", h.balance(t, "acc-a"))
	assert.Equal(t, "30.00", h.balance(t, "acc-b"))
	h.requireInvariant(t, "acc-a", "acc-b")
}

func TestReceiptUseCase_PostingFailureRollsBackReceipt(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "USD", "0")

	_, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	receipts, err := h.receiptUC.ListReceipts(bg, domain.ReceiptFilter{AgencyID: agencyA})
	require.NoError(t, err)
	assert.Empty(t, receipts)
	assert.Empty(t, h.store.Entries())
	assert.Empty(t, h.store.Outbox())
	assert.Equal(t, "0.00", h.balance(t, "acc-x"))
}

func TestReceiptUseCase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.ReceiptInput
		wantErr error
	}{
		{
			name: "unknown payment method",
			input: usecase.ReceiptInput{Concept: "x", Amount: money("10"), Currency: "ARS",
				Lines: []usecase.PaymentLineInput{{Amount: money("10"), PaymentMethod: "bitcoin"}}},
			wantErr: domain.ErrUnknownPaymentMethod,
		},
		{
			name: "disabled payment method",
			input: usecase.ReceiptInput{Concept: "x", Amount: money("10"), Currency: "ARS",
				Lines: []usecase.PaymentLineInput{{Amount: money("10"), PaymentMethod: "cheque"}}},
			wantErr: domain.ErrUnknownPaymentMethod,
		},
		{
			name: "method requires account",
			input: usecase.ReceiptInput{Concept: "x", Amount: money("10"), Currency: "ARS",
				Lines: []usecase.PaymentLineInput{{Amount: money("10"), PaymentMethod: "credit"}}},
			wantErr: domain.ErrInvalidPaymentLine,
		},
		{
			name: "lines do not add up",
			input: usecase.ReceiptInput{Concept: "x", Amount: money("10"), Currency: "ARS",
				Lines: []usecase.PaymentLineInput{{Amount: money("9.99"), PaymentMethod: "cash"}}},
			wantErr: domain.ErrReceiptAmountMismatch,
		},
		{
			name:    "missing concept",
			input:   usecase.ReceiptInput{Amount: money("10"), Currency: "ARS"},
			wantErr: domain.ErrInvalidReceipt,
		},
		{
			name:    "bad currency",
			input:   usecase.ReceiptInput{Concept: "x", Amount: money("10"), Currency: "XXX"},
			wantErr: domain.ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.receiptUC.CreateReceipt(bg, principalA, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(0), h.txm.Begins.Load(), "validation happens before any transaction")
		})
	}
}

func TestReceiptUseCase_CreditLineToForeignAgencyAccount(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-b", agencyB, domain.SubjectClient, "ARS", "0")

	_, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("50", "acc-b"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, "0.00", h.balance(t, "acc-b"))
}

func seedPaidPayments(h *harness, receiptID string) {
	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.store.SeedClientPayment(domain.ClientPayment{
		ID: "cp-1", AgencyID: agencyA, BookingID: "booking-1", ClientID: "client-1",
		Amount: money("100"), Currency: "ARS", Status: domain.ClientPaymentPaid,
		PaidAt: &paidAt, ReceiptID: ptr(receiptID),
	})
	h.store.SeedClientPayment(domain.ClientPayment{
		ID: "cp-2", AgencyID: agencyA, BookingID: "booking-1", ClientID: "client-1",
		Amount: money("50"), Currency: "ARS", Status: domain.ClientPaymentCancelled,
		ReceiptID: ptr(receiptID),
	})
	h.store.SeedClientPayment(domain.ClientPayment{
		ID: "cp-3", AgencyID: agencyA, BookingID: "booking-2", ClientID: "client-1",
		Amount: money("70"), Currency: "ARS", Status: domain.ClientPaymentPaid,
		PaidAt: &paidAt, ReceiptID: ptr("another-receipt"),
	})
}

func TestReceiptUseCase_DeleteReopensPayments(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.NoError(t, err)
	seedPaidPayments(h, r.ID)

	require.NoError(t, h.receiptUC.DeleteReceipt(bg, principalA, r.ID))

	cp1, _ := h.store.ClientPayment("cp-1")
	assert.Equal(t, domain.ClientPaymentPending, cp1.Status)
	assert.Nil(t, cp1.PaidAt)
	assert.Nil(t, cp1.ReceiptID)

	cp2, _ := h.store.ClientPayment("cp-2")
	assert.Equal(t, domain.ClientPaymentCancelled, cp2.Status, "cancelled lines stay cancelled")

	cp3, _ := h.store.ClientPayment("cp-3")
	assert.Equal(t, domain.ClientPaymentPaid, cp3.Status, "lines of other receipts are untouched")

	audits := h.store.Audits()
	require.Len(t, audits, 1)
	audit := audits[0]
	assert.Equal(t, "cp-1", audit.ClientPaymentID)
	assert.Equal(t, domain.AuditActionReceiptDeletedReopen, audit.Action)
	assert.Equal(t, domain.ClientPaymentPaid, audit.FromStatus)
	assert.Equal(t, domain.ClientPaymentPending, audit.ToStatus)
	assert.Equal(t, domain.ReopenReasonReceiptDeleted, audit.Reason)
	assert.Equal(t, "user-a", audit.ChangedBy)
	assert.Equal(t, r.ID, audit.Data["receipt_id"])
}

func TestReceiptUseCase_UpdateReopensPayments(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.NoError(t, err)
	seedPaidPayments(h, r.ID)

	updated, err := h.receiptUC.UpdateReceipt(bg, principalA, r.ID, creditReceipt("90", "acc-x"))
	require.NoError(t, err)
	assert.Equal(t, r.CreatedAt, updated.CreatedAt)
	assert.Equal(t, r.IssuedAt, updated.IssuedAt)

	cp1, _ := h.store.ClientPayment("cp-1")
	assert.Equal(t, domain.ClientPaymentPending, cp1.Status)

	audits := h.store.Audits()
	require.Len(t, audits, 1)
	assert.Equal(t, domain.ReopenReasonReceiptEdited, audits[0].Reason)
	assert.Equal(t, "90.00", h.balance(t, "acc-x"))
}

func TestReceiptUseCase_UpdateFailureRollsBackEverything(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")
	h.seedAccount("acc-usd", agencyA, domain.SubjectClient, "USD", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.NoError(t, err)
	seedPaidPayments(h, r.ID)

	// The reposting step fails on the currency check after reversal and reopen ran.
	_, err = h.receiptUC.UpdateReceipt(bg, principalA, r.ID, creditReceipt("200", "acc-usd"))
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	assert.Equal(t, "150.00", h.balance(t, "acc-x"))
	assert.Len(t, h.entriesFor(domain.ReceiptRef(r.ID)), 1)

	cp1, _ := h.store.ClientPayment("cp-1")
	assert.Equal(t, domain.ClientPaymentPaid, cp1.Status)
	assert.Empty(t, h.store.Audits())

	stored, ok := h.store.Receipt(r.ID)
	require.True(t, ok)
	assert.Equal(t, "150.00", stored.Amount.String())
	h.requireInvariant(t, "acc-x", "acc-usd")
}

func TestReceiptUseCase_AuditFailureRollsBackDelete(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.NoError(t, err)
	seedPaidPayments(h, r.ID)

	h.audits.CreateFunc = func(context.Context, usecase.Transaction, *domain.ClientPaymentAudit) error {
		return errors.New("audit table locked")
	}

	require.Error(t, h.receiptUC.DeleteReceipt(bg, principalA, r.ID))

	_, ok := h.store.Receipt(r.ID)
	assert.True(t, ok)
	assert.Equal(t, "150.00", h.balance(t, "acc-x"))
	cp1, _ := h.store.ClientPayment("cp-1")
	assert.Equal(t, domain.ClientPaymentPaid, cp1.Status)
}

func TestReceiptUseCase_CrossAgency(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-x", agencyA, domain.SubjectClient, "ARS", "0")

	r, err := h.receiptUC.CreateReceipt(bg, principalA, creditReceipt("150", "acc-x"))
	require.NoError(t, err)

	_, err = h.receiptUC.GetReceipt(bg, agencyB, r.ID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)

	_, err = h.receiptUC.UpdateReceipt(bg, principalB, r.ID, usecase.ReceiptInput{Concept: "x", Amount: money("1"), Currency: "ARS"})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)

	assert.ErrorIs(t, h.receiptUC.DeleteReceipt(bg, principalB, r.ID), domain.ErrReceiptNotFound)
	assert.Equal(t, "150.00", h.balance(t, "acc-x"))
}

func TestReceiptUseCase_RequiresPrincipal(t *testing.T) {
	h := newHarness(t)

	_, err := h.receiptUC.CreateReceipt(bg, domain.Principal{}, creditReceipt("10", "acc-x"))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, h.receiptUC.DeleteReceipt(bg, domain.Principal{AgencyID: agencyA}, "r-1"), domain.ErrUnauthenticated)
}

func TestReceiptUseCase_ListByBooking(t *testing.T) {
	h := newHarness(t)

	in := usecase.ReceiptInput{Concept: "Seña", Amount: money("10"), Currency: "ARS", BookingID: ptr("booking-1")}
	_, err := h.receiptUC.CreateReceipt(bg, principalA, in)
	require.NoError(t, err)

	in.BookingID = ptr("booking-2")
	_, err = h.receiptUC.CreateReceipt(bg, principalA, in)
	require.NoError(t, err)

	_, err = h.receiptUC.CreateReceipt(bg, principalB, in)
	require.NoError(t, err)

	all, err := h.receiptUC.ListReceipts(bg, domain.ReceiptFilter{AgencyID: agencyA})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byBooking, err := h.receiptUC.ListReceipts(bg, domain.ReceiptFilter{AgencyID: agencyA, BookingID: "booking-2"})
	require.NoError(t, err)
	require.Len(t, byBooking, 1)
	assert.Equal(t, "booking-2", *byBooking[0].BookingID)
}
