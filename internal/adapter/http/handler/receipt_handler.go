package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// ReceiptService defines the behavior needed by ReceiptHandler.
type ReceiptService interface {
	CreateReceipt(ctx context.Context, principal domain.Principal, in usecase.ReceiptInput) (*domain.Receipt, error)
	UpdateReceipt(ctx context.Context, principal domain.Principal, id string, in usecase.ReceiptInput) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, principal domain.Principal, id string) error
	GetReceipt(ctx context.Context, agencyID, id string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, filter domain.ReceiptFilter) ([]*domain.Receipt, error)
}

// ReceiptHandler handles receipt HTTP requests.
type ReceiptHandler struct {
	receiptUC ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptUC ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptUC: receiptUC}
}

// Create issues a receipt and posts its credit lines.
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.receiptUC.CreateReceipt(r.Context(), p, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReceiptFromDomain(receipt))
}

// Get retrieves a receipt.
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	receipt, err := h.receiptUC.GetReceipt(r.Context(), p.AgencyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// List lists receipts, optionally for one booking.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	receipts, err := h.receiptUC.ListReceipts(r.Context(), domain.ReceiptFilter{
		AgencyID:  p.AgencyID,
		BookingID: r.URL.Query().Get("booking_id"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := dto.ListReceiptsResponse{
		Receipts: make([]*dto.ReceiptResponse, len(receipts)),
		Total:    int64(len(receipts)),
	}
	for i, rc := range receipts {
		resp.Receipts[i] = dto.ReceiptFromDomain(rc)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Update edits a receipt. Its previous credit postings are reversed first.
func (h *ReceiptHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.receiptUC.UpdateReceipt(r.Context(), p, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// Delete removes a receipt after reversing its credit postings.
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.receiptUC.DeleteReceipt(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
