package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// balanceCache keeps short-lived account snapshots. Every failure is logged
// and treated as a miss; the database stays the source of truth.
type balanceCache struct {
	cache   Cache
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

type accountSnapshot struct {
	ID          string       `json:"id"`
	AgencyID    string       `json:"agency_id"`
	SubjectType string       `json:"subject_type"`
	SubjectID   string       `json:"subject_id"`
	Currency    string       `json:"currency"`
	Balance     domain.Money `json:"balance"`
	Enabled     bool         `json:"enabled"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func balanceCacheKey(agencyID, accountID string) string {
	return "creditledger:account:" + agencyID + ":" + accountID
}

func (c *balanceCache) get(ctx context.Context, agencyID, accountID string) (*domain.CreditAccount, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}

	data, err := c.cache.Get(ctx, balanceCacheKey(agencyID, accountID))
	if err != nil || data == nil {
		if c.metrics != nil {
			c.metrics.CacheMisses.WithLabelValues("account").Inc()
		}
		return nil, false
	}

	var snap accountSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn().Err(err).Str("account_id", accountID).Msg("discarding unreadable cached account")
		return nil, false
	}

	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues("account").Inc()
	}

	return &domain.CreditAccount{
		ID:          snap.ID,
		AgencyID:    snap.AgencyID,
		SubjectType: domain.SubjectType(snap.SubjectType),
		SubjectID:   snap.SubjectID,
		Currency:    snap.Currency,
		Balance:     snap.Balance,
		Enabled:     snap.Enabled,
		Version:     snap.Version,
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
	}, true
}

// put stores a snapshot and reports whether it was written.
func (c *balanceCache) put(ctx context.Context, account *domain.CreditAccount) bool {
	if c == nil || c.cache == nil {
		return false
	}

	data, err := json.Marshal(accountSnapshot{
		ID:          account.ID,
		AgencyID:    account.AgencyID,
		SubjectType: string(account.SubjectType),
		SubjectID:   account.SubjectID,
		Currency:    account.Currency,
		Balance:     account.Balance,
		Enabled:     account.Enabled,
		Version:     account.Version,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	})
	if err != nil {
		return false
	}

	if err := c.cache.Set(ctx, balanceCacheKey(account.AgencyID, account.ID), data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to cache account")
		return false
	}
	return true
}

// invalidate drops snapshots after a commit that changed balances.
func (c *balanceCache) invalidate(ctx context.Context, agencyID string, accountIDs ...string) {
	if c == nil || c.cache == nil {
		return
	}

	for _, id := range accountIDs {
		if err := c.cache.Delete(ctx, balanceCacheKey(agencyID, id)); err != nil {
			c.logger.Warn().Err(err).Str("account_id", id).Msg("failed to invalidate cached account")
		}
	}
}
