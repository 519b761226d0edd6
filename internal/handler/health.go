package handler

import (
	"net/http"
	"os"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	auditPath string
}

// NewHealthHandler creates a new health handler. auditPath is the log
// file the stats endpoint reads; readiness checks it is reachable.
func NewHealthHandler(auditPath string) *HealthHandler {
	return &HealthHandler{auditPath: auditPath}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// A missing log is the empty zero state, not unreadiness. Any other
	// stat failure means the path is unusable.
	if _, err := os.Stat(h.auditPath); err != nil && !os.IsNotExist(err) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "audit log not accessible",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
