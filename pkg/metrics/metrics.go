// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks completed conversation turns by outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_turns_total",
			Help: "Total conversation turns processed",
		},
		[]string{"outcome"},
	)

	// ModelCallDuration tracks model capability call duration.
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_call_duration_seconds",
			Help:    "Model capability call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	// ToolExecutionsTotal tracks tool executions by tool and status.
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Total tool executions",
		},
		[]string{"tool", "status"},
	)

	// SecurityBlocksTotal tracks refused tool invocations.
	SecurityBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_blocks_total",
			Help: "Tool invocations refused by policy",
		},
		[]string{"reason"},
	)

	// LoopAbortsTotal tracks turns aborted at the tool loop ceiling.
	LoopAbortsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loop_aborts_total",
			Help: "Turns aborted after reaching the tool loop limit",
		},
	)

	// AuditEventsTotal tracks audit events appended by type.
	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Audit events appended",
		},
		[]string{"type"},
	)

	// AuditDroppedTotal tracks audit events lost to write failures.
	AuditDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Audit events dropped due to write failures",
		},
	)

	// SentimentTotal tracks sentiment classifications by label.
	SentimentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_classifications_total",
			Help: "Sentiment classifications recorded",
		},
		[]string{"label"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordModelCall records metrics for a model capability call.
func RecordModelCall(provider, status string, duration float64) {
	ModelCallDuration.WithLabelValues(provider, status).Observe(duration)
}

// RecordToolExecution records a tool execution outcome.
func RecordToolExecution(tool, status string) {
	ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}

// RecordSecurityBlock records a refused tool invocation.
func RecordSecurityBlock(reason string) {
	SecurityBlocksTotal.WithLabelValues(reason).Inc()
}

// RecordAuditEvent records an appended audit event.
func RecordAuditEvent(eventType string) {
	AuditEventsTotal.WithLabelValues(eventType).Inc()
}
