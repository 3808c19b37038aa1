package usecase

import (
	"context"
	"time"

	"github.com/agencydesk/creditledger/internal/domain"
)

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// PrincipalResolver turns a bearer or cookie token into the calling principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// AccessPolicy decides whether a role holds a named permission.
type AccessPolicy interface {
	Allowed(ctx context.Context, role domain.Role, permission string) bool
}

// Permissions checked by the HTTP layer.
const (
	PermissionReceipts     = "receipts"
	PermissionReceiptsForm = "receipts_form"
	PermissionCredits      = "credits"
	PermissionCreditsAdmin = "credits_admin"
)
