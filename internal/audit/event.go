package audit

// Kind classifies an audit event.
type Kind string

// Event kinds. Readers must treat kinds they do not recognize as opaque
// rather than failing; the set can grow.
const (
	KindSystem             Kind = "SYSTEM"
	KindUserInput          Kind = "USER_INPUT"
	KindAgentResponse      Kind = "AGENT_RESPONSE"
	KindToolExecution      Kind = "TOOL_EXECUTION"
	KindToolResult         Kind = "TOOL_RESULT"
	KindSecurityBlock      Kind = "SECURITY_BLOCK"
	KindSuccess            Kind = "SUCCESS"
	KindAnalyticsSentiment Kind = "ANALYTICS_SENTIMENT"
	KindAnalyticsError     Kind = "ANALYTICS_ERROR"
	KindError              Kind = "ERROR"
	KindCritical           Kind = "CRITICAL"
)

// Event is one append-only audit record. Content has always passed
// through the redactor before the event is constructed.
type Event struct {
	Timestamp string `json:"timestamp"`
	Type      Kind   `json:"type"`
	Content   string `json:"content"`
}
