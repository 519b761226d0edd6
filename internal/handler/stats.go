package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/stats"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

// StatsHandler serves the dashboard read model derived from the audit
// trail.
type StatsHandler struct {
	auditPath string
	log       *logger.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(auditPath string, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		auditPath: auditPath,
		log:       log.With(zap.String("component", "stats_handler")),
	}
}

// Stats handles GET /api/v1/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := stats.Compute(h.auditPath)
	if err != nil {
		h.log.Error("failed to compute stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read activity log")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
