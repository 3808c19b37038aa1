package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/adapter/http/handler"
	apimiddleware "github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/access"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
	"github.com/agencydesk/creditledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(registry)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "creditledger_http_requests_total")
}

func TestNewRouter_RequiresPrincipal(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/credit/accounts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"unauthenticated"`)
}

func TestNewRouter_EnforcesPermissions(t *testing.T) {
	router := NewRouter(newRouterConfig())
	body := `{"subject_type":"client","subject_id":"c-1","currency":"ARS"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/api/v1/credit/accounts", body, domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodPost, "/api/v1/credit/accounts", body, domain.RoleManager))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/api/v1/receipts/r-1", "", domain.RoleSeller))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodDelete, "/api/v1/receipts/r-1", "", domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodDelete, "/api/v1/receipts/r-1", "", domain.RoleLeader))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1, nil)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/api/v1/credit/accounts", "", domain.RoleSeller))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, apiRequest(http.MethodGet, "/api/v1/credit/accounts", "", domain.RoleSeller))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Hour
	}))

	req := apiRequest(http.MethodPost, "/api/v1/credit/accounts", `{"subject_type":"client","subject_id":"c-1","currency":"ARS"}`, domain.RoleManager)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "agency-a:POST /api/v1/credit/accounts:key-123", store.checkedKey)
	assert.True(t, store.updated)
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	require.True(t, ok, "router does not implement chi.Routes")

	seen := map[string]bool{}
	require.NoError(t, chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}))

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/credit/accounts/",
		"GET /api/v1/credit/accounts/",
		"GET /api/v1/credit/accounts/{id}/",
		"PATCH /api/v1/credit/accounts/{id}/",
		"GET /api/v1/credit/accounts/{id}/entries",
		"POST /api/v1/credit/accounts/{id}/entries",
		"GET /api/v1/credit/accounts/{id}/reconcile",
		"POST /api/v1/receipts/",
		"PUT /api/v1/receipts/{id}",
		"DELETE /api/v1/receipts/{id}",
		"DELETE /api/v1/investments/{id}/credit-entries",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		assert.True(t, seen[route], "expected route %s to be registered", route)
	}
}

func apiRequest(method, path, body string, role domain.Role) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.HeaderUserID, "user-a")
	req.Header.Set(apimiddleware.HeaderAgencyID, "agency-a")
	req.Header.Set(apimiddleware.HeaderRole, string(role))
	return req
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AccountHandler: handler.NewAccountHandler(stubAccountService{}),
		EntryHandler:   handler.NewEntryHandler(stubEntryService{}),
		ReceiptHandler: handler.NewReceiptHandler(stubReceiptService{}),
		LedgerHandler:  handler.NewLedgerHandler(stubReconciliationService{}),
		HealthHandler:  handler.NewHealthHandler(nil),
		Auth:           apimiddleware.NewAuth(nil, access.NewStaticPolicy(access.DefaultGrants), nil),
		MetricsHandler: http.NotFoundHandler(),
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, p domain.Principal, input usecase.CreateAccountInput) (*domain.CreditAccount, error) {
	return &domain.CreditAccount{ID: "acc", AgencyID: p.AgencyID, Enabled: true}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error) {
	return &domain.CreditAccount{ID: id, AgencyID: agencyID}, nil
}

func (stubAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error) {
	return []*domain.CreditAccount{}, nil
}

func (stubAccountService) SetEnabled(ctx context.Context, p domain.Principal, id string, enabled bool) (*domain.CreditAccount, error) {
	return &domain.CreditAccount{ID: id, Enabled: enabled}, nil
}

type stubEntryService struct{}

func (stubEntryService) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CreditEntry, error) {
	return []*domain.CreditEntry{}, nil
}

func (stubEntryService) PostManual(ctx context.Context, p domain.Principal, input usecase.ManualPostingInput) (*usecase.PostResult, error) {
	return &usecase.PostResult{Entry: &domain.CreditEntry{ID: "e"}}, nil
}

func (stubEntryService) ReverseInvestment(ctx context.Context, p domain.Principal, investmentID string) (*usecase.ReversalResult, error) {
	return &usecase.ReversalResult{Source: domain.InvestmentRef(investmentID)}, nil
}

type stubReceiptService struct{}

func (stubReceiptService) CreateReceipt(ctx context.Context, p domain.Principal, in usecase.ReceiptInput) (*domain.Receipt, error) {
	return &domain.Receipt{ID: "r"}, nil
}

func (stubReceiptService) UpdateReceipt(ctx context.Context, p domain.Principal, id string, in usecase.ReceiptInput) (*domain.Receipt, error) {
	return &domain.Receipt{ID: id}, nil
}

func (stubReceiptService) DeleteReceipt(ctx context.Context, p domain.Principal, id string) error {
	return nil
}

func (stubReceiptService) GetReceipt(ctx context.Context, agencyID, id string) (*domain.Receipt, error) {
	return &domain.Receipt{ID: id, AgencyID: agencyID}, nil
}

func (stubReceiptService) ListReceipts(ctx context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error) {
	return []*domain.Receipt{}, nil
}

type stubReconciliationService struct{}

func (stubReconciliationService) ReconcileAccount(ctx context.Context, agencyID, accountID string) (*usecase.ReconciliationResult, error) {
	return &usecase.ReconciliationResult{AccountID: accountID, IsReconciled: true}, nil
}

func (stubReconciliationService) ReconcileAgency(ctx context.Context, agencyID string) (*usecase.ReconciliationReport, error) {
	return &usecase.ReconciliationReport{AgencyID: agencyID, LedgerConsistent: true}, nil
}

type stubIdempotencyStore struct {
	checkedKey string
	updated    bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkedKey = key
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updated = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
