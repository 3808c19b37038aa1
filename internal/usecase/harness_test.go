package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
	"github.com/agencydesk/creditledger/internal/usecase/mocks"
)

const (
	agencyA = "agency-a"
	agencyB = "agency-b"
)

var (
	principalA = domain.Principal{UserID: "user-a", AgencyID: agencyA, Role: domain.RoleAdministrative}
	principalB = domain.Principal{UserID: "user-b", AgencyID: agencyB, Role: domain.RoleAdministrative}
)

// harness wires every use case to one in-memory store.
type harness struct {
	store    *mocks.Store
	txm      *mocks.MockTransactionManager
	idGen    *mocks.MockIDGenerator
	accounts *mocks.MockCreditAccountRepository
	entries  *mocks.MockCreditEntryRepository
	receipts *mocks.MockReceiptRepository
	methods  *mocks.MockPaymentMethodRepository
	payments *mocks.MockClientPaymentRepository
	audits   *mocks.MockPaymentAuditRepository
	outbox   *mocks.MockOutboxRepository
	ledger   *mocks.MockLedgerRepository

	posting   *usecase.PostingUseCase
	reversal  *usecase.ReversalUseCase
	receiptUC *usecase.ReceiptUseCase
	accountUC *usecase.AccountUseCase
	entryUC   *usecase.EntryUseCase
	reconcile *usecase.ReconciliationUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := mocks.NewStore()
	h := &harness{
		store:    store,
		txm:      mocks.NewMockTransactionManager(store),
		idGen:    mocks.NewMockIDGenerator(),
		accounts: mocks.NewMockCreditAccountRepository(store),
		entries:  mocks.NewMockCreditEntryRepository(store),
		receipts: mocks.NewMockReceiptRepository(store),
		methods:  mocks.NewMockPaymentMethodRepository(store),
		payments: mocks.NewMockClientPaymentRepository(store),
		audits:   mocks.NewMockPaymentAuditRepository(store),
		outbox:   mocks.NewMockOutboxRepository(store),
		ledger:   mocks.NewMockLedgerRepository(store),
	}

	h.posting = usecase.NewPostingUseCase(h.txm, h.accounts, h.entries, h.outbox, h.idGen)
	h.reversal = usecase.NewReversalUseCase(h.txm, h.accounts, h.entries, h.outbox, h.idGen)
	h.receiptUC = usecase.NewReceiptUseCase(h.txm, h.receipts, h.methods, h.payments, h.audits, h.outbox, h.posting, h.reversal, h.idGen)
	h.accountUC = usecase.NewAccountUseCase(h.txm, h.accounts, h.outbox, h.idGen)
	h.entryUC = usecase.NewEntryUseCase(h.accounts, h.entries, h.posting, h.reversal)
	h.reconcile = usecase.NewReconciliationUseCase(h.ledger)

	for _, agency := range []string{agencyA, agencyB} {
		store.SeedPaymentMethod(agency, domain.PaymentMethod{Code: "cash", Name: "Efectivo", Enabled: true})
		store.SeedPaymentMethod(agency, domain.PaymentMethod{Code: "credit", Name: "Saldo a favor", RequiresAccount: true, Enabled: true})
		store.SeedPaymentMethod(agency, domain.PaymentMethod{Code: "cheque", Name: "Cheque", Enabled: false})
	}

	return h
}

func (h *harness) seedAccount(id, agencyID string, subject domain.SubjectType, currency, balance string) {
	now := time.Now().UTC()
	h.store.SeedAccount(domain.CreditAccount{
		ID:          id,
		AgencyID:    agencyID,
		SubjectType: subject,
		SubjectID:   "subject-" + id,
		Currency:    currency,
		Balance:     domain.MustParseMoney(balance),
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (h *harness) balance(t *testing.T, id string) string {
	t.Helper()
	acc, ok := h.store.Account(id)
	require.True(t, ok, "account %s missing", id)
	return acc.Balance.String()
}

func (h *harness) entriesFor(ref domain.DocumentRef) []domain.CreditEntry {
	var out []domain.CreditEntry
	for _, e := range h.store.Entries() {
		if src, ok := e.Source(); ok && src == ref {
			out = append(out, e)
		}
	}
	return out
}

// requireInvariant checks balance == signed sum of entries for the given accounts.
func (h *harness) requireInvariant(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		acc, ok := h.store.Account(id)
		require.True(t, ok)
		require.Truef(t, acc.Balance.Equal(h.store.SignedSum(id)),
			"account %s: balance %s, entries sum %s", id, acc.Balance, h.store.SignedSum(id))
	}
}

func money(s string) domain.Money {
	return domain.MustParseMoney(s)
}

func ptr[T any](v T) *T {
	return &v
}

var bg = context.Background()
