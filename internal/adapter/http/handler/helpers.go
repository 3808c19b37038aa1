package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/adapter/http/dto"
	"github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	"github.com/agencydesk/creditledger/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Kind:    kind,
	})
}

// writeDomainError maps err and writes it. Internal errors are logged and
// their detail is withheld from the caller.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, status, kind, "internal error")
		return
	}
	writeError(w, status, kind, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and error kinds.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, middleware.KindUnauthenticated
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, middleware.KindForbidden
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict, middleware.KindValidation
	case domain.IsNotFound(err):
		return http.StatusNotFound, middleware.KindNotFound
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity, middleware.KindValidation
	default:
		return http.StatusInternalServerError, middleware.KindInternal
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, middleware.KindValidation, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// principal returns the caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, middleware.KindUnauthenticated, domain.ErrUnauthenticated.Error())
		return domain.Principal{}, false
	}
	return p, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
