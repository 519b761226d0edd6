// Package tool declares the tools available to the agent and executes
// requested invocations against their declared contracts.
package tool

import "context"

// SideEffect classifies what a tool is allowed to do.
type SideEffect string

const (
	// Read tools only look data up.
	Read SideEffect = "READ"
	// MutateWithConfirmation tools change external state and require an
	// explicit affirmative flag in the structured arguments.
	MutateWithConfirmation SideEffect = "MUTATE_WITH_CONFIRMATION"
	// ExternalFetch tools reach out over the network.
	ExternalFetch SideEffect = "EXTERNAL_FETCH"
)

// Handler executes one tool invocation with validated arguments.
type Handler func(ctx context.Context, args map[string]any) (Result, error)

// Declaration describes a tool to the model capability. Declarations
// are registered once at process start and immutable thereafter.
type Declaration struct {
	Name        string
	Description string
	// Parameters is a JSON-schema-shaped object describing the
	// argument mapping ({"type":"object","properties":...,"required":...}).
	Parameters map[string]any
	SideEffect SideEffect

	// ConfirmFlag names the boolean argument that must be truthy for a
	// MutateWithConfirmation tool to run. ConfirmError is the fixed
	// refusal payload when it is absent or false.
	ConfirmFlag  string
	ConfirmError string
}

// Request is a tool invocation produced by the model capability. It is
// never trusted blindly: the executor validates it structurally before
// anything runs.
type Request struct {
	Name      string
	Arguments map[string]any
}

// Result is a normalized tool outcome: either a success payload or an
// error payload ({"error": "..."}). Nothing throws past the executor
// boundary; every outcome becomes a Result fed back to the model.
type Result map[string]any

// ErrorResult builds an error payload.
func ErrorResult(msg string) Result {
	return Result{"error": msg}
}

// IsError reports whether the result is an error payload.
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// ErrorMessage returns the error payload text, or "".
func (r Result) ErrorMessage() string {
	if s, ok := r["error"].(string); ok {
		return s
	}
	return ""
}
