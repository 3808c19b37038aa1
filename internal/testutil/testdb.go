// Package testutil starts a throwaway PostgreSQL for integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/agencydesk/creditledger/internal/infrastructure/postgres"
)

// TestDB is a migrated database running in a container.
type TestDB struct {
	Pool *pgxpool.Pool
	URL  string
}

// NewTestDB starts postgres, applies the migrations and returns a pool. The
// test is skipped in -short mode or when no container runtime is available.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("creditledger_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	migrator := postgres.NewMigrator("file://"+findMigrationsDir(), dbURL, zerolog.Nop())
	if err := migrator.Up(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL, 10, 1)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{Pool: pool, URL: dbURL}
}

// AddPaymentMethod registers a payment method for an agency.
func (db *TestDB) AddPaymentMethod(t *testing.T, agencyID, code string, requiresAccount bool) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO payment_methods (agency_id, code, name, requires_account) VALUES ($1, $2, $2, $3)`,
		agencyID, code, requiresAccount)
	if err != nil {
		t.Fatalf("insert payment method: %v", err)
	}
}

// findMigrationsDir walks up from the package directory to the module's
// migrations directory.
func findMigrationsDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "migrations"
	}
	for range 10 {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return "migrations"
}
