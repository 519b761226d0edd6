package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-ai/agent-platform/internal/search"
	"github.com/custodia-ai/agent-platform/internal/store"
)

// Notifier echoes operator-facing notices (the CLI's [SYSTEM] lines).
// A nil notifier is silent.
type Notifier func(format string, args ...any)

func (n Notifier) printf(format string, args ...any) {
	if n != nil {
		n(format, args...)
	}
}

// SearchFailedError is the fixed payload for a search transport failure.
const SearchFailedError = "Failed to connect to search engine."

// RegisterUserTools registers getUserInfo and cancelSubscription bound
// to the user-record store.
func RegisterUserTools(r *Registry, st *store.Store, notify Notifier) error {
	getUserInfo := Declaration{
		Name:        "getUserInfo",
		Description: "Lookup a user's subscription plan and status by their ID.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"userId": map[string]any{"type": "string", "description": "The ID of the user."},
			},
			"required": []string{"userId"},
		},
		SideEffect: Read,
	}
	if err := r.Register(getUserInfo, func(ctx context.Context, args map[string]any) (Result, error) {
		userID, _ := args["userId"].(string)
		notify.printf("Agent is getting data for: %s...", userID)

		rec, err := st.Get(userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrorResult("User not found"), nil
		}
		if err != nil {
			return nil, err
		}
		return Result{"name": rec.Name, "plan": rec.Plan, "status": rec.Status}, nil
	}); err != nil {
		return err
	}

	cancelSubscription := Declaration{
		Name:        "cancelSubscription",
		Description: "Cancel a user's subscription. Requires explicit confirmation.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"userId":         map[string]any{"type": "string", "description": "The ID of the user."},
				"subscriptionId": map[string]any{"type": "string", "description": "The ID of the plan."},
				"reason":         map[string]any{"type": "string", "description": "The reason for cancellation."},
				"confirmCancel":  map[string]any{"type": "boolean", "description": "MUST be true."},
			},
			"required": []string{"userId", "subscriptionId", "reason", "confirmCancel"},
		},
		SideEffect:   MutateWithConfirmation,
		ConfirmFlag:  "confirmCancel",
		ConfirmError: "Cancellation aborted. Confirmation required.",
	}
	return r.Register(cancelSubscription, func(ctx context.Context, args map[string]any) (Result, error) {
		userID, _ := args["userId"].(string)
		subscriptionID, _ := args["subscriptionId"].(string)

		err := st.SetStatus(userID, store.StatusCancelled)
		if errors.Is(err, store.ErrNotFound) {
			return ErrorResult("User not found."), nil
		}
		if err != nil {
			return nil, err
		}

		notify.printf("DATABASE UPDATED: %s is now Cancelled.", userID)
		return Result{
			"success": true,
			"message": fmt.Sprintf("Successfully cancelled %s.", subscriptionID),
		}, nil
	})
}

// RegisterSearchTool registers searchWeb bound to a search provider.
func RegisterSearchTool(r *Registry, provider search.Provider, notify Notifier) error {
	searchWeb := Declaration{
		Name:        "searchWeb",
		Description: "Search the web for real-time information.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "The search keywords."},
			},
			"required": []string{"query"},
		},
		SideEffect: ExternalFetch,
	}
	return r.Register(searchWeb, func(ctx context.Context, args map[string]any) (Result, error) {
		query, _ := args["query"].(string)
		notify.printf("Searching the web for %q...", query)

		results, err := provider.Search(ctx, query)
		if err != nil {
			// Transport failures become an error payload, never an
			// exception into the dispatcher.
			return ErrorResult(SearchFailedError), nil
		}
		return Result{"results": results}, nil
	})
}
