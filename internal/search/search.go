// Package search provides the outbound web search capability.
//
// Providers implement the Provider interface; the executor layer only
// sees bounded result lists, never raw provider payloads.
package search

import "context"

// MaxResults caps how many results any provider hands back. Keeping
// the list small limits both the model's context growth and the
// surface for large-payload injection.
const MaxResults = 3

// Result is a single search result summary.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Provider is the interface search backends implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "serper").
	Name() string

	// Search executes a query and returns at most MaxResults results.
	Search(ctx context.Context, query string) ([]Result, error)
}
