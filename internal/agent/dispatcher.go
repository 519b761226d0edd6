// Package agent implements the orchestration loop that drives one
// conversational turn: model round-trips, bounded tool execution, and
// the audit discipline around both.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/internal/llm"
	"github.com/custodia-ai/agent-platform/internal/sentiment"
	"github.com/custodia-ai/agent-platform/internal/tool"
	"github.com/custodia-ai/agent-platform/pkg/logger"
	"github.com/custodia-ai/agent-platform/pkg/metrics"
)

// Fixed user-facing notices. Raw internal error text is never relayed
// to the user; it goes, redacted, to the audit trail instead.
const (
	// EmergencyStopNotice replaces the model answer when the tool loop
	// ceiling is hit. The turn ends in an explicit degraded state.
	EmergencyStopNotice = "EMERGENCY STOP: Maximum execution loops reached. The request was halted before completion."

	// FailureNotice is shown when a turn fails outside the executor's
	// own error normalization. The session continues.
	FailureNotice = "Sorry, something went wrong while processing that. Please try again."
)

const systemPrompt = "You are a customer support agent. Use the available tools to look up " +
	"user records, cancel subscriptions (only with explicit confirmation), and search the web. " +
	"Be concise and accurate."

// Dispatcher holds the shared collaborators of every session.
type Dispatcher struct {
	model        llm.Client
	executor     *tool.Executor
	registry     *tool.Registry
	annotator    *sentiment.Annotator
	audit        *audit.Logger
	log          *logger.Logger
	maxLoops     int
	modelTimeout time.Duration
	modelName    string
}

// Config configures a Dispatcher.
type Config struct {
	Model        llm.Client
	Executor     *tool.Executor
	Registry     *tool.Registry
	Annotator    *sentiment.Annotator // optional
	Audit        *audit.Logger
	Logger       *logger.Logger
	MaxLoops     int // tool round-trip ceiling per turn; default 5
	ModelTimeout time.Duration
	ModelName    string
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	maxLoops := cfg.MaxLoops
	if maxLoops <= 0 {
		maxLoops = 5
	}
	return &Dispatcher{
		model:        cfg.Model,
		executor:     cfg.Executor,
		registry:     cfg.Registry,
		annotator:    cfg.Annotator,
		audit:        cfg.Audit,
		log:          cfg.Logger.With(zap.String("component", "dispatcher")),
		maxLoops:     maxLoops,
		modelTimeout: cfg.ModelTimeout,
		modelName:    cfg.ModelName,
	}
}

// Session owns one conversation: its history and the per-turn
// round-trip counter. Turns are processed strictly sequentially.
type Session struct {
	ID string

	d       *Dispatcher
	history []llm.Message
	tools   []llm.ToolSpec
	log     *logger.Logger
}

// NewSession starts a session. The declaration set handed to the model
// is captured here and stays fixed for the session's lifetime.
func (d *Dispatcher) NewSession() *Session {
	decls := d.registry.Declarations()
	tools := make([]llm.ToolSpec, len(decls))
	for i, decl := range decls {
		tools[i] = llm.ToolSpec{
			Name:        decl.Name,
			Description: decl.Description,
			Parameters:  decl.Parameters,
		}
	}

	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		ID:    id,
		d:     d,
		tools: tools,
		log:   d.log.WithSession(id),
	}
}

// Turn processes one user input and returns the text to present. It
// never returns an error and never panics: every failure mode ends in
// a fixed notice, and the session accepts the next turn.
func (s *Session) Turn(ctx context.Context, input string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("turn panicked", zap.Any("panic", r))
			s.d.audit.Record(audit.KindError, fmt.Sprintf("turn panicked: %v", r))
			metrics.TurnsTotal.WithLabelValues("error").Inc()
			s.closeTurn(FailureNotice)
			reply = FailureNotice
		}
	}()

	s.d.audit.Record(audit.KindUserInput, input)
	if s.d.annotator != nil {
		s.d.annotator.Dispatch(input)
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: input})

	resp, err := s.chat(ctx)
	if err != nil {
		return s.failTurn(err)
	}

	loops := 0
	for resp.ToolCall != nil {
		if loops >= s.d.maxLoops {
			// Hard ceiling, not a soft retry: the turn ends in a safe,
			// explicit degraded state.
			s.log.Warn("tool loop limit reached", zap.Int("max_loops", s.d.maxLoops))
			s.d.audit.Record(audit.KindCritical, "Maximum execution loops reached.")
			metrics.LoopAbortsTotal.Inc()
			metrics.TurnsTotal.WithLabelValues("aborted").Inc()
			s.closeTurn(EmergencyStopNotice)
			return EmergencyStopNotice
		}
		loops++

		call := resp.ToolCall
		result := s.d.executor.Execute(ctx, tool.Request{
			Name:      call.Name,
			Arguments: call.Arguments,
		})

		s.history = append(s.history,
			llm.Message{Role: llm.RoleAssistant, Content: resp.Text, ToolCall: call},
			llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    encodeResult(result),
				IsError:    result.IsError(),
			},
		)

		resp, err = s.chat(ctx)
		if err != nil {
			return s.failTurn(err)
		}
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: resp.Text})
	s.d.audit.Record(audit.KindAgentResponse, resp.Text)
	metrics.TurnsTotal.WithLabelValues("ok").Inc()
	return resp.Text
}

func (s *Session) chat(ctx context.Context) (*llm.ChatResponse, error) {
	if s.d.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.d.modelTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.d.model.Chat(ctx, &llm.ChatRequest{
		Model:    s.d.modelName,
		System:   systemPrompt,
		Messages: s.history,
		Tools:    s.tools,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordModelCall(s.d.model.Name(), status, time.Since(start).Seconds())
	return resp, err
}

func (s *Session) failTurn(err error) string {
	s.log.Error("turn failed", zap.Error(err))
	s.d.audit.Record(audit.KindError, err.Error())
	metrics.TurnsTotal.WithLabelValues("error").Inc()
	s.closeTurn(FailureNotice)
	return FailureNotice
}

// closeTurn appends the notice the user saw as the assistant entry for
// an aborted turn. Provider adapters require user and assistant
// messages to alternate, so a turn may never end on a user or
// tool-result message.
func (s *Session) closeTurn(notice string) {
	if n := len(s.history); n > 0 && s.history[n-1].Role == llm.RoleAssistant {
		return
	}
	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: notice})
}

func encodeResult(result tool.Result) string {
	payload, err := json.Marshal(result)
	if err != nil {
		return `{"error":"unserializable tool result"}`
	}
	return string(payload)
}
