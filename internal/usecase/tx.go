package usecase

import (
	"context"
	"time"
)

// txRunner opens one transaction per attempt and retries the whole attempt on
// transient failures. fn must be safe to run more than once.
type txRunner struct {
	txManager TransactionManager
	retrier   Retrier
	timeout   time.Duration
}

func (r txRunner) run(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		timeout := r.timeout
		if timeout <= 0 {
			timeout = DefaultTransactionTimeout
		}

		txCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		tx, err := r.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if r.retrier == nil {
		return attempt()
	}

	return r.retrier.Retry(ctx, attempt)
}
