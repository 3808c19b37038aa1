package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// Store is an in-memory database shared by the mock repositories. A
// transaction holds the store exclusively from Begin until Commit or Rollback,
// and Rollback restores the state captured at Begin.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	accounts       map[string]domain.CreditAccount
	entries        []domain.CreditEntry
	receipts       map[string]domain.Receipt
	clientPayments map[string]domain.ClientPayment
	audits         []domain.ClientPaymentAudit
	outbox         []domain.OutboxEvent
	methods        map[string]map[string]domain.PaymentMethod
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]domain.CreditAccount),
		receipts:       make(map[string]domain.Receipt),
		clientPayments: make(map[string]domain.ClientPayment),
		methods:        make(map[string]map[string]domain.PaymentMethod),
	}
}

type snapshot struct {
	accounts       map[string]domain.CreditAccount
	entries        []domain.CreditEntry
	receipts       map[string]domain.Receipt
	clientPayments map[string]domain.ClientPayment
	audits         []domain.ClientPaymentAudit
	outbox         []domain.OutboxEvent
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		accounts:       make(map[string]domain.CreditAccount, len(s.accounts)),
		entries:        append([]domain.CreditEntry(nil), s.entries...),
		receipts:       make(map[string]domain.Receipt, len(s.receipts)),
		clientPayments: make(map[string]domain.ClientPayment, len(s.clientPayments)),
		audits:         append([]domain.ClientPaymentAudit(nil), s.audits...),
		outbox:         append([]domain.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.receipts {
		snap.receipts[k] = copyReceipt(v)
	}
	for k, v := range s.clientPayments {
		snap.clientPayments[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snap.accounts
	s.entries = snap.entries
	s.receipts = snap.receipts
	s.clientPayments = snap.clientPayments
	s.audits = snap.audits
	s.outbox = snap.outbox
}

func copyReceipt(r domain.Receipt) domain.Receipt {
	r.Lines = append([]domain.ReceiptPaymentLine(nil), r.Lines...)
	return r
}

// Seed helpers write directly, outside any transaction.

func (s *Store) SeedAccount(a domain.CreditAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
}

func (s *Store) SeedPaymentMethod(agencyID string, m domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.methods[agencyID] == nil {
		s.methods[agencyID] = make(map[string]domain.PaymentMethod)
	}
	s.methods[agencyID][m.Code] = m
}

func (s *Store) SeedClientPayment(p domain.ClientPayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientPayments[p.ID] = p
}

// Account returns a copy of the stored account.
func (s *Store) Account(id string) (domain.CreditAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	return a, ok
}

// Entries returns a copy of all entries in insertion order.
func (s *Store) Entries() []domain.CreditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CreditEntry(nil), s.entries...)
}

// Receipt returns a copy of the stored receipt.
func (s *Store) Receipt(id string) (domain.Receipt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	return copyReceipt(r), ok
}

// ClientPayment returns a copy of the stored payment-schedule line.
func (s *Store) ClientPayment(id string) (domain.ClientPayment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.clientPayments[id]
	return p, ok
}

// Audits returns a copy of all audit records.
func (s *Store) Audits() []domain.ClientPaymentAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ClientPaymentAudit(nil), s.audits...)
}

// Outbox returns a copy of all outbox events.
func (s *Store) Outbox() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OutboxEvent(nil), s.outbox...)
}

// SignedSum is the balance an account should have according to its entries.
func (s *Store) SignedSum(accountID string) domain.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := domain.ZeroMoney
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		delta, err := e.Delta()
		if err != nil {
			panic(err)
		}
		total = total.Add(delta)
	}
	return total
}

// MockTransactionManager begins store transactions.
type MockTransactionManager struct {
	store *Store

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	Begins    atomic.Int64
	Commits   atomic.Int64
}

func NewMockTransactionManager(store *Store) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Begins.Add(1)
	m.store.txMu.Lock()
	return &MockTransaction{manager: m, snap: m.store.snapshot()}, nil
}

// MockTransaction is one exclusive store transaction.
type MockTransaction struct {
	manager *MockTransactionManager
	snap    snapshot
	done    bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.done = true
	t.manager.Commits.Add(1)
	t.manager.store.txMu.Unlock()
	return nil
}

// Rollback after Commit is a no-op, like pgx.
func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.manager.store.restore(t.snap)
	t.manager.store.txMu.Unlock()
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%04d", m.counter.Add(1))
}

// MockCreditAccountRepository is a mock implementation of CreditAccountRepository.
type MockCreditAccountRepository struct {
	store *Store

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, account *domain.CreditAccount) error
	GetByIDFunc       func(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error)
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, agencyID, id string, balance domain.Money, updatedAt time.Time) error
	ListFunc          func(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error)
}

func NewMockCreditAccountRepository(store *Store) *MockCreditAccountRepository {
	return &MockCreditAccountRepository{store: store}
}

func (m *MockCreditAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.CreditAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, a := range m.store.accounts {
		if a.AgencyID == account.AgencyID && a.SubjectType == account.SubjectType &&
			a.SubjectID == account.SubjectID && a.Currency == account.Currency {
			return domain.ErrAccountAlreadyExists
		}
	}
	m.store.accounts[account.ID] = *account
	return nil
}

func (m *MockCreditAccountRepository) GetByID(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, agencyID, id)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	a, ok := m.store.accounts[id]
	if !ok || a.AgencyID != agencyID {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (m *MockCreditAccountRepository) GetByIDForUpdate(ctx context.Context, _ usecase.Transaction, agencyID, id string) (*domain.CreditAccount, error) {
	return m.GetByID(ctx, agencyID, id)
}

func (m *MockCreditAccountRepository) GetByIDsForUpdate(ctx context.Context, _ usecase.Transaction, agencyID string, ids []string) ([]*domain.CreditAccount, error) {
	var accounts []*domain.CreditAccount
	for _, id := range ids {
		a, err := m.GetByID(ctx, agencyID, id)
		if err != nil {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (m *MockCreditAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, agencyID, id string, balance domain.Money, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, agencyID, id, balance, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.accounts[id]
	if !ok || a.AgencyID != agencyID {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	a.Version++
	a.UpdatedAt = updatedAt
	m.store.accounts[id] = a
	return nil
}

func (m *MockCreditAccountRepository) SetEnabled(_ context.Context, _ usecase.Transaction, agencyID, id string, enabled bool, updatedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.accounts[id]
	if !ok || a.AgencyID != agencyID {
		return domain.ErrAccountNotFound
	}
	a.Enabled = enabled
	a.UpdatedAt = updatedAt
	m.store.accounts[id] = a
	return nil
}

func (m *MockCreditAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.CreditAccount
	for _, a := range m.store.accounts {
		if a.AgencyID != filter.AgencyID {
			continue
		}
		if filter.SubjectType != "" && a.SubjectType != filter.SubjectType {
			continue
		}
		if filter.SubjectID != "" && a.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Currency != "" && a.Currency != filter.Currency {
			continue
		}
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, filter.Limit, filter.Offset), nil
}

// MockCreditEntryRepository is a mock implementation of CreditEntryRepository.
type MockCreditEntryRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.CreditEntry) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, agencyID, id string) error
}

func NewMockCreditEntryRepository(store *Store) *MockCreditEntryRepository {
	return &MockCreditEntryRepository{store: store}
}

func (m *MockCreditEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CreditEntry) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, entry); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = append(m.store.entries, *entry)
	return nil
}

func (m *MockCreditEntryRepository) ListByDocumentForUpdate(_ context.Context, _ usecase.Transaction, agencyID string, ref domain.DocumentRef) ([]*domain.CreditEntry, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.CreditEntry
	for _, e := range m.store.entries {
		if e.AgencyID != agencyID {
			continue
		}
		if src, ok := e.Source(); ok && src == ref {
			e := e
			result = append(result, &e)
		}
	}
	return result, nil
}

func (m *MockCreditEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, agencyID, id string) error {
	if m.DeleteFunc != nil {
		if err := m.DeleteFunc(ctx, tx, agencyID, id); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i, e := range m.store.entries {
		if e.ID == id && e.AgencyID == agencyID {
			m.store.entries = append(m.store.entries[:i:i], m.store.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (m *MockCreditEntryRepository) ListByAccount(_ context.Context, agencyID, accountID string, limit, offset int) ([]*domain.CreditEntry, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.CreditEntry
	for i := len(m.store.entries) - 1; i >= 0; i-- {
		e := m.store.entries[i]
		if e.AgencyID == agencyID && e.AccountID == accountID {
			result = append(result, &e)
		}
	}
	return paginate(result, limit, offset), nil
}

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error
}

func NewMockReceiptRepository(store *Store) *MockReceiptRepository {
	return &MockReceiptRepository{store: store}
}

func (m *MockReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, receipt); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.receipts[receipt.ID] = copyReceipt(*receipt)
	return nil
}

func (m *MockReceiptRepository) GetByID(_ context.Context, agencyID, id string) (*domain.Receipt, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	r, ok := m.store.receipts[id]
	if !ok || r.AgencyID != agencyID {
		return nil, domain.ErrReceiptNotFound
	}
	r = copyReceipt(r)
	return &r, nil
}

func (m *MockReceiptRepository) GetByIDForUpdate(ctx context.Context, _ usecase.Transaction, agencyID, id string) (*domain.Receipt, error) {
	return m.GetByID(ctx, agencyID, id)
}

func (m *MockReceiptRepository) Update(ctx context.Context, tx usecase.Transaction, receipt *domain.Receipt) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, tx, receipt); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.receipts[receipt.ID]
	if !ok || existing.AgencyID != receipt.AgencyID {
		return domain.ErrReceiptNotFound
	}
	m.store.receipts[receipt.ID] = copyReceipt(*receipt)
	return nil
}

func (m *MockReceiptRepository) Delete(_ context.Context, _ usecase.Transaction, agencyID, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	r, ok := m.store.receipts[id]
	if !ok || r.AgencyID != agencyID {
		return domain.ErrReceiptNotFound
	}
	delete(m.store.receipts, id)
	return nil
}

func (m *MockReceiptRepository) List(_ context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.Receipt
	for _, r := range m.store.receipts {
		if r.AgencyID != filter.AgencyID {
			continue
		}
		if filter.BookingID != "" && (r.BookingID == nil || *r.BookingID != filter.BookingID) {
			continue
		}
		r = copyReceipt(r)
		result = append(result, &r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, filter.Limit, filter.Offset), nil
}

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository.
type MockPaymentMethodRepository struct {
	store *Store

	GetByCodesFunc func(ctx context.Context, agencyID string, codes []string) (map[string]*domain.PaymentMethod, error)
}

func NewMockPaymentMethodRepository(store *Store) *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{store: store}
}

func (m *MockPaymentMethodRepository) GetByCodes(ctx context.Context, agencyID string, codes []string) (map[string]*domain.PaymentMethod, error) {
	if m.GetByCodesFunc != nil {
		return m.GetByCodesFunc(ctx, agencyID, codes)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	result := make(map[string]*domain.PaymentMethod)
	for _, code := range codes {
		if pm, ok := m.store.methods[agencyID][code]; ok {
			result[code] = &pm
		}
	}
	return result, nil
}

// MockClientPaymentRepository is a mock implementation of ClientPaymentRepository.
type MockClientPaymentRepository struct {
	store *Store

	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, payment *domain.ClientPayment) error
}

func NewMockClientPaymentRepository(store *Store) *MockClientPaymentRepository {
	return &MockClientPaymentRepository{store: store}
}

func (m *MockClientPaymentRepository) ListByReceiptForUpdate(_ context.Context, _ usecase.Transaction, agencyID, receiptID string) ([]*domain.ClientPayment, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.ClientPayment
	for _, p := range m.store.clientPayments {
		if p.AgencyID == agencyID && p.ReceiptID != nil && *p.ReceiptID == receiptID {
			p := p
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockClientPaymentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, payment *domain.ClientPayment) error {
	if m.UpdateStatusFunc != nil {
		if err := m.UpdateStatusFunc(ctx, tx, payment); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.clientPayments[payment.ID]
	if !ok || existing.AgencyID != payment.AgencyID {
		return domain.ErrClientPaymentNotFound
	}
	m.store.clientPayments[payment.ID] = *payment
	return nil
}

// MockPaymentAuditRepository is a mock implementation of PaymentAuditRepository.
type MockPaymentAuditRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, audit *domain.ClientPaymentAudit) error
}

func NewMockPaymentAuditRepository(store *Store) *MockPaymentAuditRepository {
	return &MockPaymentAuditRepository{store: store}
}

func (m *MockPaymentAuditRepository) Create(ctx context.Context, tx usecase.Transaction, audit *domain.ClientPaymentAudit) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, audit); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.audits = append(m.store.audits, *audit)
	return nil
}

func (m *MockPaymentAuditRepository) ListByClientPayment(_ context.Context, agencyID, clientPaymentID string) ([]*domain.ClientPaymentAudit, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.ClientPaymentAudit
	for _, a := range m.store.audits {
		if a.AgencyID == agencyID && a.ClientPaymentID == clientPaymentID {
			a := a
			result = append(result, &a)
		}
	}
	return result, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository(store *Store) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, tx, event); err != nil {
			return err
		}
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.outbox = append(m.store.outbox, *event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.store.outbox {
		if !e.Published {
			e := e
			result = append(result, &e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i := range m.store.outbox {
		if m.store.outbox[i].ID == id {
			m.store.outbox[i].Published = true
			m.store.outbox[i].PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(_ context.Context, before time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	kept := m.store.outbox[:0]
	for _, e := range m.store.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.store.outbox = kept
	return nil
}

// MockLedgerRepository computes balance checks from the store.
type MockLedgerRepository struct {
	store *Store

	BalanceChecksFunc func(ctx context.Context, agencyID string) ([]*domain.BalanceCheck, error)
}

func NewMockLedgerRepository(store *Store) *MockLedgerRepository {
	return &MockLedgerRepository{store: store}
}

func (m *MockLedgerRepository) ListAgencyIDs(_ context.Context) ([]string, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	seen := map[string]bool{}
	var ids []string
	for _, a := range m.store.accounts {
		if !seen[a.AgencyID] {
			seen[a.AgencyID] = true
			ids = append(ids, a.AgencyID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockLedgerRepository) BalanceCheck(_ context.Context, agencyID, accountID string) (*domain.BalanceCheck, error) {
	a, ok := m.store.Account(accountID)
	if !ok || a.AgencyID != agencyID {
		return nil, domain.ErrAccountNotFound
	}
	return m.check(a), nil
}

func (m *MockLedgerRepository) BalanceChecks(ctx context.Context, agencyID string) ([]*domain.BalanceCheck, error) {
	if m.BalanceChecksFunc != nil {
		return m.BalanceChecksFunc(ctx, agencyID)
	}
	m.store.mu.RLock()
	var accounts []domain.CreditAccount
	for _, a := range m.store.accounts {
		if a.AgencyID == agencyID {
			accounts = append(accounts, a)
		}
	}
	m.store.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	checks := make([]*domain.BalanceCheck, 0, len(accounts))
	for _, a := range accounts {
		checks = append(checks, m.check(a))
	}
	return checks, nil
}

func (m *MockLedgerRepository) check(a domain.CreditAccount) *domain.BalanceCheck {
	var count int64
	for _, e := range m.store.Entries() {
		if e.AccountID == a.ID {
			count++
		}
	}
	return &domain.BalanceCheck{
		AccountID:  a.ID,
		AgencyID:   a.AgencyID,
		Currency:   a.Currency,
		Recorded:   a.Balance,
		Computed:   m.store.SignedSum(a.ID),
		EntryCount: count,
	}
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		keys: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[key]; ok {
		return true, existing, nil
	}
	m.keys[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
