package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logged := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		logged = true
		w.WriteHeader(http.StatusTeapot)
	})

	h := chimiddleware.RequestID(NewLoggingMiddleware(zerolog.New(&buf)).Wrap(next))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/receipts", nil))

	require.True(t, logged)
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, done map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &done))

	assert.NotEmpty(t, inner["request_id"])
	assert.Equal(t, inner["request_id"], done["request_id"])
	assert.Equal(t, "info", done["level"])
	assert.EqualValues(t, http.StatusTeapot, done["status"])
	assert.Equal(t, "/api/v1/receipts", done["path"])
}

func TestLoggingMiddlewareErrorLevelForServerErrors(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	NewLoggingMiddleware(zerolog.New(&buf)).Wrap(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var done map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &done))
	assert.Equal(t, "error", done["level"])
}
