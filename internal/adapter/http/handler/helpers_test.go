package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agencydesk/creditledger/internal/domain"
)

var principalA = domain.Principal{UserID: "user-a", AgencyID: "agency-a", Role: domain.RoleAdministrative}

func withPrincipal(req *http.Request) *http.Request {
	return req.WithContext(domain.WithPrincipal(req.Context(), principalA))
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	assert.Equal(t, 50, parseIntQuery(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	assert.Equal(t, 10, parseIntQuery(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/accounts", nil)
	assert.Equal(t, 25, parseIntQuery(req, "limit", 25))
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound, "not_found"},
		{"wrapped receipt not found", fmt.Errorf("load: %w", domain.ErrReceiptNotFound), http.StatusNotFound, "not_found"},
		{"duplicate account", domain.ErrAccountAlreadyExists, http.StatusConflict, "validation"},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusUnprocessableEntity, "validation"},
		{"unknown document type", domain.ErrUnknownDocumentType, http.StatusUnprocessableEntity, "validation"},
		{"unknown payment method", domain.ErrUnknownPaymentMethod, http.StatusUnprocessableEntity, "validation"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"context deadline", context.DeadlineExceeded, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, kind := mapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestWriteDomainErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), `"kind":"internal"`)
}

func TestHandlersRequirePrincipal(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{})
	rec := httptest.NewRecorder()

	h.List(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
