package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, agencyID, accountID string) (*usecase.ReconciliationResult, error)
	ReconcileAgency(ctx context.Context, agencyID string) (*usecase.ReconciliationReport, error)
}

// LedgerHandler serves balance consistency checks.
type LedgerHandler struct {
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reconciliationUC: reconciliationUC}
}

// ReconcileAccount recomputes one account's balance from its entries.
func (h *LedgerHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), p.AgencyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// CheckConsistency reconciles every account of the caller's agency.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	report, err := h.reconciliationUC.ReconcileAgency(r.Context(), p.AgencyID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyReportFromDomain(report))
}
