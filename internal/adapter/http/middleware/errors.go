package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
)

// Error kinds shared with the handler package.
const (
	KindValidation      = "validation"
	KindNotFound        = "not_found"
	KindForbidden       = "forbidden"
	KindUnauthenticated = "unauthenticated"
	KindInternal        = "internal"
)

func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Kind:    kind,
	})
}
