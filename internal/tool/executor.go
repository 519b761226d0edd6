package tool

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/pkg/logger"
	"github.com/custodia-ai/agent-platform/pkg/metrics"
)

// UnknownToolError is the fixed payload for a request naming no
// registered tool.
const UnknownToolError = "Unknown tool"

// Executor validates requested invocations against their declared
// contracts and side-effect policies, runs them, and normalizes every
// outcome to a Result. Nothing propagates past Execute.
type Executor struct {
	registry *Registry
	audit    *audit.Logger
	log      *logger.Logger
	timeout  time.Duration
}

// NewExecutor creates an executor over the given registry. timeout
// bounds each handler call; zero disables the bound.
func NewExecutor(registry *Registry, auditLog *audit.Logger, log *logger.Logger, timeout time.Duration) *Executor {
	return &Executor{
		registry: registry,
		audit:    auditLog,
		log:      log.With(zap.String("component", "executor")),
		timeout:  timeout,
	}
}

// Execute runs one tool invocation. Event discipline: a TOOL_EXECUTION
// event precedes any execution, and exactly one of TOOL_RESULT, SUCCESS
// or SECURITY_BLOCK follows. An unknown tool name produces only the
// SECURITY_BLOCK entry, since nothing runs.
func (e *Executor) Execute(ctx context.Context, req Request) Result {
	ent, ok := e.registry.lookup(req.Name)
	if !ok {
		e.audit.Record(audit.KindSecurityBlock, fmt.Sprintf("Rejected request for unregistered tool %q", req.Name))
		metrics.RecordSecurityBlock("unknown_tool")
		metrics.RecordToolExecution(req.Name, "blocked")
		return ErrorResult(UnknownToolError)
	}
	decl := ent.decl

	e.audit.Record(audit.KindToolExecution, fmt.Sprintf("%s invoked with arguments: %s", decl.Name, summarizeArgs(req.Arguments)))

	// The confirmation gate runs before argument validation: a missing
	// flag is a refusal, not a malformed request, and must produce the
	// fixed confirmation payload.
	if decl.SideEffect == MutateWithConfirmation && !confirmed(decl, req.Arguments) {
		e.audit.Record(audit.KindSecurityBlock, fmt.Sprintf("%s attempted without confirmation", decl.Name))
		metrics.RecordSecurityBlock("missing_confirmation")
		metrics.RecordToolExecution(decl.Name, "blocked")
		msg := decl.ConfirmError
		if msg == "" {
			msg = "Confirmation required."
		}
		return ErrorResult(msg)
	}

	if err := validateArgs(decl, req.Arguments); err != nil {
		res := ErrorResult(fmt.Sprintf("Invalid arguments: %v", err))
		e.audit.Record(audit.KindToolResult, map[string]any(res))
		metrics.RecordToolExecution(decl.Name, "invalid")
		return res
	}

	res := e.run(ctx, ent, req.Arguments)

	switch {
	case res.IsError():
		e.audit.Record(audit.KindToolResult, map[string]any(res))
		metrics.RecordToolExecution(decl.Name, "error")
	case decl.SideEffect == MutateWithConfirmation:
		e.audit.Record(audit.KindSuccess, fmt.Sprintf("%s completed: %s", decl.Name, summarizeArgs(req.Arguments)))
		metrics.RecordToolExecution(decl.Name, "success")
	default:
		e.audit.Record(audit.KindToolResult, map[string]any(res))
		metrics.RecordToolExecution(decl.Name, "success")
	}
	return res
}

// run invokes the handler with the per-call timeout and converts every
// failure mode, panics included, into an error payload.
func (e *Executor) run(ctx context.Context, ent entry, args map[string]any) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tool handler panicked", zap.String("tool", ent.decl.Name), zap.Any("panic", r))
			res = ErrorResult(fmt.Sprintf("%s failed unexpectedly", ent.decl.Name))
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := ent.handler(ctx, args)
	if err != nil {
		e.log.Warn("tool handler failed", zap.String("tool", ent.decl.Name), zap.Error(err))
		return ErrorResult(err.Error())
	}
	if out == nil {
		return Result{}
	}
	return out
}

func confirmed(decl Declaration, args map[string]any) bool {
	if decl.ConfirmFlag == "" {
		return false
	}
	v, ok := args[decl.ConfirmFlag].(bool)
	return ok && v
}

func summarizeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	return fmt.Sprintf("%v", args)
}
