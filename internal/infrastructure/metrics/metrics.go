package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesPosted   *prometheus.CounterVec
	EntriesReversed prometheus.Counter
	PostingDuration prometheus.Histogram
	PostingErrors   *prometheus.CounterVec

	// Receipt metrics
	ReceiptOperations *prometheus.CounterVec
	ReceiptDuration   *prometheus.HistogramVec
	PaymentsReopened  prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Reconciliation metrics
	AccountsChecked    prometheus.Counter
	BalanceMismatches  prometheus.Counter
	ReconcileDuration  prometheus.Histogram
	OutboxPublished    prometheus.Counter
	OutboxPublishFails prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		EntriesPosted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_entries_posted_total",
				Help: "Total number of credit entries posted by document type",
			},
			[]string{"document_type"},
		),
		EntriesReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_entries_reversed_total",
			Help: "Total number of credit entries removed by document reversal",
		}),
		PostingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditledger_posting_duration_seconds",
			Help:    "Duration of posting transactions",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),

		// Receipt metrics
		ReceiptOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_receipt_operations_total",
				Help: "Total receipt workflow runs by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		ReceiptDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditledger_receipt_duration_seconds",
				Help:    "Duration of receipt workflow transactions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PaymentsReopened: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_client_payments_reopened_total",
			Help: "Total client payments reset to pending by receipt edits and deletes",
		}),

		// Account metrics
		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_accounts_created_total",
			Help: "Total number of credit accounts created",
		}),
		AccountOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Reconciliation metrics
		AccountsChecked: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_reconcile_accounts_checked_total",
			Help: "Total accounts checked by reconciliation",
		}),
		BalanceMismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_reconcile_mismatches_total",
			Help: "Total accounts whose balance differs from the sum of their entries",
		}),
		ReconcileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditledger_reconcile_duration_seconds",
			Help:    "Duration of reconciliation sweeps",
			Buckets: prometheus.DefBuckets,
		}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxPublishFails: f.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_outbox_publish_failures_total",
			Help: "Total outbox events that failed to publish",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "creditledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Cache metrics
		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_cache_hits_total",
				Help: "Total cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_cache_misses_total",
				Help: "Total cache misses",
			},
			[]string{"cache"},
		),

		// Authentication metrics
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_auth_failures_total",
				Help: "Total authentication and authorization failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"scope"},
		),
	}
}
