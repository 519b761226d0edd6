package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

func newRouter(t *testing.T, auditPath string) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	statsHandler := NewStatsHandler(auditPath, logger.NewNop())
	healthHandler := NewHealthHandler(auditPath)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/api/v1/stats", statsHandler.Stats)
	return r
}

func TestStatsEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	auditLog, err := audit.Open(path, logger.NewNop())
	require.NoError(t, err)
	auditLog.Record(audit.KindUserInput, "hello")
	auditLog.Record(audit.KindError, "model unavailable")
	auditLog.Record(audit.KindAnalyticsSentiment, "NEGATIVE")
	require.NoError(t, auditLog.Close())

	rec := httptest.NewRecorder()
	newRouter(t, path).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Logs  []audit.Event `json:"logs"`
		Stats struct {
			TotalActions int    `json:"totalActions"`
			Errors       int    `json:"errors"`
			Mood         string `json:"mood"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Logs, 3)
	assert.Equal(t, audit.KindAnalyticsSentiment, body.Logs[0].Type, "newest event first")
	assert.Equal(t, 3, body.Stats.TotalActions)
	assert.Equal(t, 1, body.Stats.Errors)
	assert.Equal(t, "NEGATIVE", body.Stats.Mood)
}

func TestStatsEndpointEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.jsonl")

	rec := httptest.NewRecorder()
	newRouter(t, path).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `{"totalActions":0,"errors":0,"mood":"WAITING"}`, string(body["stats"]))
	assert.Equal(t, "[]", string(body["logs"]))
}

func TestHealthEndpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	router := newRouter(t, path)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
