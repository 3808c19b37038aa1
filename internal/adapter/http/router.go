package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/adapter/http/handler"
	"github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	EntryHandler   *handler.EntryHandler
	ReceiptHandler *handler.ReceiptHandler
	LedgerHandler  *handler.LedgerHandler
	HealthHandler  *handler.HealthHandler

	Auth             *middleware.Auth
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Probes
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.Auth.Authenticate)
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		can := cfg.Auth.RequirePermission

		r.Route("/credit/accounts", func(r chi.Router) {
			r.With(can(usecase.PermissionCreditsAdmin)).Post("/", cfg.AccountHandler.Create)
			r.With(can(usecase.PermissionCredits)).Get("/", cfg.AccountHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.With(can(usecase.PermissionCredits)).Get("/", cfg.AccountHandler.Get)
				r.With(can(usecase.PermissionCreditsAdmin)).Patch("/", cfg.AccountHandler.Update)
				r.With(can(usecase.PermissionCredits)).Get("/entries", cfg.EntryHandler.ListByAccount)
				r.With(can(usecase.PermissionCreditsAdmin)).Post("/entries", cfg.EntryHandler.Post)
				r.With(can(usecase.PermissionCredits)).Get("/reconcile", cfg.LedgerHandler.ReconcileAccount)
			})
		})

		r.Route("/receipts", func(r chi.Router) {
			r.With(can(usecase.PermissionReceiptsForm)).Post("/", cfg.ReceiptHandler.Create)
			r.With(can(usecase.PermissionReceipts)).Get("/", cfg.ReceiptHandler.List)
			r.With(can(usecase.PermissionReceipts)).Get("/{id}", cfg.ReceiptHandler.Get)
			r.With(can(usecase.PermissionReceiptsForm)).Put("/{id}", cfg.ReceiptHandler.Update)
			r.With(can(usecase.PermissionReceiptsForm)).Delete("/{id}", cfg.ReceiptHandler.Delete)
		})

		r.With(can(usecase.PermissionCreditsAdmin)).
			Delete("/investments/{id}/credit-entries", cfg.EntryHandler.ReverseInvestment)

		r.With(can(usecase.PermissionCredits)).Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
