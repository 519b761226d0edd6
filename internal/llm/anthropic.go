package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the Anthropic model client.
type AnthropicClient struct {
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	return &AnthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Chat sends one messages request with tool use enabled.
func (c *AnthropicClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	messages, err := toAnthropicMessages(req)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(model),
		MaxTokens: anthropic.F(int64(maxTokens)),
		Messages:  anthropic.F(messages),
	}

	if req.System != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{{
			Type: anthropic.F(anthropic.TextBlockParamTypeText),
			Text: anthropic.F(req.System),
		}})
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionUnionParam, len(req.Tools))
		for i, t := range req.Tools {
			tools[i] = anthropic.ToolParam{
				Name:        anthropic.F(t.Name),
				Description: anthropic.F(t.Description),
				InputSchema: anthropic.F[interface{}](t.Parameters),
			}
		}
		params.Tools = anthropic.F(tools)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &ChatResponse{
		Model:      resp.Model,
		StopReason: string(resp.StopReason),
		LatencyMs:  time.Since(start).Milliseconds(),
	}

	for _, block := range resp.Content {
		switch block.Type {
		case anthropic.ContentBlockTypeText:
			out.Text += block.Text
		case anthropic.ContentBlockTypeToolUse:
			if out.ToolCall != nil {
				// At most one tool call is consumed per round-trip.
				continue
			}
			args := make(map[string]any)
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, fmt.Errorf("model produced malformed tool input: %w", err)
				}
			}
			out.ToolCall = &ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			}
		}
	}

	return out, nil
}

func toAnthropicMessages(req *ChatRequest) ([]anthropic.MessageParam, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch {
		case msg.ToolCall != nil:
			blocks := []anthropic.ContentBlockParamUnion{}
			if msg.Content != "" {
				blocks = append(blocks, anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(msg.Content),
				})
			}
			blocks = append(blocks, anthropic.ToolUseBlockParam{
				Type:  anthropic.F(anthropic.ToolUseBlockParamTypeToolUse),
				ID:    anthropic.F(msg.ToolCall.ID),
				Name:  anthropic.F(msg.ToolCall.Name),
				Input: anthropic.F[interface{}](msg.ToolCall.Arguments),
			})
			messages = append(messages, anthropic.MessageParam{
				Role:    anthropic.F(anthropic.MessageParamRoleAssistant),
				Content: anthropic.F(blocks),
			})
		case msg.Role == RoleTool:
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.F(anthropic.MessageParamRoleUser),
				Content: anthropic.F([]anthropic.ContentBlockParamUnion{
					anthropic.ToolResultBlockParam{
						Type:      anthropic.F(anthropic.ToolResultBlockParamTypeToolResult),
						ToolUseID: anthropic.F(msg.ToolCallID),
						IsError:   anthropic.F(msg.IsError),
						Content: anthropic.F([]anthropic.ToolResultBlockParamContentUnion{
							anthropic.TextBlockParam{
								Type: anthropic.F(anthropic.TextBlockParamTypeText),
								Text: anthropic.F(msg.Content),
							},
						}),
					},
				}),
			})
		default:
			role := anthropic.MessageParamRoleUser
			if msg.Role == RoleAssistant {
				role = anthropic.MessageParamRoleAssistant
			}
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.F(role),
				Content: anthropic.F([]anthropic.ContentBlockParamUnion{
					anthropic.TextBlockParam{
						Type: anthropic.F(anthropic.TextBlockParamTypeText),
						Text: anthropic.F(msg.Content),
					},
				}),
			})
		}
	}

	return messages, nil
}
