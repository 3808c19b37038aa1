package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase compares stored balances with the signed sum of entries.
// It only reads; a mismatch is reported, never repaired.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		logger:     zerolog.Nop(),
	}
}

func (uc *ReconciliationUseCase) WithMetrics(m *metrics.Metrics) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

func (uc *ReconciliationUseCase) WithLogger(l zerolog.Logger) *ReconciliationUseCase {
	uc.logger = l
	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	AgencyID          string
	Currency          string
	RecordedBalance   domain.Money
	CalculatedBalance domain.Money
	Difference        domain.Money
	EntryCount        int64
	IsReconciled      bool
	LastChecked       time.Time
}

func newResult(check *domain.BalanceCheck, at time.Time) *ReconciliationResult {
	return &ReconciliationResult{
		AccountID:         check.AccountID,
		AgencyID:          check.AgencyID,
		Currency:          check.Currency,
		RecordedBalance:   check.Recorded,
		CalculatedBalance: check.Computed,
		Difference:        check.Difference(),
		EntryCount:        check.EntryCount,
		IsReconciled:      check.Consistent(),
		LastChecked:       at,
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	AgencyID           string
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// ReconcileAccount recomputes one account's balance from its entries.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, agencyID, accountID string) (*ReconciliationResult, error) {
	check, err := uc.ledgerRepo.BalanceCheck(ctx, agencyID, accountID)
	if err != nil {
		return nil, err
	}

	result := newResult(check, time.Now().UTC())
	uc.observe(result)

	return result, nil
}

// ReconcileAgency checks every account of one agency.
func (uc *ReconciliationUseCase) ReconcileAgency(ctx context.Context, agencyID string) (*ReconciliationReport, error) {
	checks, err := uc.ledgerRepo.BalanceChecks(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &ReconciliationReport{
		AgencyID:      agencyID,
		TotalAccounts: len(checks),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     now,
	}

	for _, check := range checks {
		result := newResult(check, now)
		uc.observe(result)

		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}
	report.LedgerConsistent = len(report.Discrepancies) == 0

	return report, nil
}

// SweepReport aggregates the agency reports of one sweep.
type SweepReport struct {
	Agencies  []*ReconciliationReport
	Failed    map[string]error
	Duration  time.Duration
	CheckedAt time.Time
}

// Consistent reports whether every agency was checked and found consistent.
func (r *SweepReport) Consistent() bool {
	if len(r.Failed) > 0 {
		return false
	}
	for _, a := range r.Agencies {
		if !a.LedgerConsistent {
			return false
		}
	}
	return true
}

// SweepAll reconciles every agency on a pool of workers. One agency failing
// does not stop the others; its error is kept in Failed.
func (uc *ReconciliationUseCase) SweepAll(ctx context.Context, workers int) (*SweepReport, error) {
	start := time.Now()

	agencyIDs, err := uc.ledgerRepo.ListAgencyIDs(ctx)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create reconcile pool: %w", err)
	}
	defer pool.Release()

	report := &SweepReport{Failed: map[string]error{}, CheckedAt: start.UTC()}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, agencyID := range agencyIDs {
		wg.Add(1)

		err := pool.Submit(func() {
			defer wg.Done()

			agencyReport, err := uc.ReconcileAgency(ctx, agencyID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[agencyID] = err
				return
			}
			report.Agencies = append(report.Agencies, agencyReport)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			report.Failed[agencyID] = err
			mu.Unlock()
		}
	}

	wg.Wait()

	sort.Slice(report.Agencies, func(i, j int) bool {
		return report.Agencies[i].AgencyID < report.Agencies[j].AgencyID
	})
	report.Duration = time.Since(start)

	if uc.metrics != nil {
		uc.metrics.ReconcileDuration.Observe(report.Duration.Seconds())
	}

	uc.logger.Info().
		Int("agencies", len(agencyIDs)).
		Int("failed", len(report.Failed)).
		Bool("consistent", report.Consistent()).
		Dur("duration", report.Duration).
		Msg("reconciliation sweep finished")

	return report, nil
}

func (uc *ReconciliationUseCase) observe(result *ReconciliationResult) {
	if uc.metrics != nil {
		uc.metrics.AccountsChecked.Inc()
		if !result.IsReconciled {
			uc.metrics.BalanceMismatches.Inc()
		}
	}

	if !result.IsReconciled {
		uc.logger.Error().
			Str("agency_id", result.AgencyID).
			Str("account_id", result.AccountID).
			Str("recorded", result.RecordedBalance.String()).
			Str("calculated", result.CalculatedBalance.String()).
			Str("difference", result.Difference.String()).
			Msg("credit account balance does not match its entries")
	}
}
