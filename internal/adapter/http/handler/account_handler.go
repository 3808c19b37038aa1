package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, principal domain.Principal, input usecase.CreateAccountInput) (*domain.CreditAccount, error)
	GetAccount(ctx context.Context, agencyID, id string) (*domain.CreditAccount, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.CreditAccount, error)
	SetEnabled(ctx context.Context, principal domain.Principal, id string, enabled bool) (*domain.CreditAccount, error)
}

// AccountHandler handles credit account HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new credit account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), p, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), p.AgencyID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the agency's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	accounts, err := h.accountUC.ListAccounts(r.Context(), domain.AccountFilter{
		AgencyID:    p.AgencyID,
		SubjectType: domain.SubjectType(q.Get("subject_type")),
		SubjectID:   q.Get("subject_id"),
		Currency:    q.Get("currency"),
		Limit:       parseIntQuery(r, "limit", 20),
		Offset:      parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Update enables or disables an account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, middleware.KindValidation, "enabled is required")
		return
	}

	account, err := h.accountUC.SetEnabled(r.Context(), p, chi.URLParam(r, "id"), *req.Enabled)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
