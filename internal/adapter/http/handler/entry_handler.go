package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.CreditEntry, error)
	PostManual(ctx context.Context, principal domain.Principal, input usecase.ManualPostingInput) (*usecase.PostResult, error)
	ReverseInvestment(ctx context.Context, principal domain.Principal, investmentID string) (*usecase.ReversalResult, error)
}

// EntryHandler handles credit entry HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists entries for an account.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	entries, err := h.entryUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		AgencyID:  p.AgencyID,
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// Post records a manual posting on an account.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ManualEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.entryUC.PostManual(r.Context(), p, req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromResult(result))
}

// ReverseInvestment removes every entry posted for an investment.
func (h *EntryHandler) ReverseInvestment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.entryUC.ReverseInvestment(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReversalFromResult(result))
}
