// Package llm provides the model capability boundary: given
// conversation history and tool declarations, a provider returns either
// a final message or a single structured tool invocation request.
package llm

import (
	"context"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a structured tool invocation request produced by the
// model. It is never trusted blindly; the executor validates it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one entry of the conversation history.
type Message struct {
	Role    string
	Content string

	// ToolCall is set on assistant messages that requested a tool.
	ToolCall *ToolCall

	// ToolCallID is set on tool-result messages; Content then carries
	// the serialized tool result payload.
	ToolCallID string
	// IsError marks a tool-result message carrying an error payload.
	IsError bool
}

// ToolSpec is a tool declaration in the shape providers expect.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChatRequest is one round-trip to the model capability.
type ChatRequest struct {
	Model     string
	System    string
	Messages  []Message
	Tools     []ToolSpec
	MaxTokens int
}

// ChatResponse is the model's reply: final text, or a tool call.
// At most one tool call is surfaced per round-trip.
type ChatResponse struct {
	Text       string
	ToolCall   *ToolCall
	Model      string
	StopReason string
	LatencyMs  int64
}

// Client is the interface for model providers.
type Client interface {
	// Chat sends one request and returns the model's response.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of model provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a model client for the given provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewAnthropicClient(apiKey)
	}
}
