package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agencydesk/creditledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if !cfg.AllowPostingToDisabled {
		t.Fatalf("expected posting to disabled accounts to be allowed by default")
	}

	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers by default, got %v", cfg.KafkaBrokers)
	}

	if cfg.OutboxRetention != 7*24*time.Hour {
		t.Fatalf("expected one week of outbox retention, got %s", cfg.OutboxRetention)
	}

	if cfg.TransactionTimeout != 10*time.Second {
		t.Fatalf("expected 10s transaction timeout, got %s", cfg.TransactionTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LEDGER_ALLOW_POSTING_TO_DISABLED", "false")
	t.Setenv("RECONCILE_WORKERS", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if !cfg.AuthEnabled || cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected auth overrides to apply")
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("expected two brokers, got %v", cfg.KafkaBrokers)
	}

	if cfg.AllowPostingToDisabled {
		t.Fatalf("expected disabled-account policy override")
	}

	if cfg.ReconcileWorkers != 1 {
		t.Fatalf("expected worker count to be clamped to 1, got %d", cfg.ReconcileWorkers)
	}
}

func TestLoadRejectsAuthWithoutSecret(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}
