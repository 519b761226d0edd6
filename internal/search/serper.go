package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v5"
)

const defaultEndpoint = "https://google.serper.dev/search"

// SerperClient queries the serper.dev Google search API.
type SerperClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerperClient creates a serper.dev search provider.
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier.
func (c *SerperClient) Name() string {
	return "serper"
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search issues one outbound query and returns the top results,
// truncated to MaxResults. Transient transport failures are retried
// once before the error is surfaced.
func (c *SerperClient) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	parsed, err := retry.NewWithData[*serperResponse](
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	).Do(func() (*serperResponse, error) {
		return c.fetch(ctx, body)
	})
	if err != nil {
		return nil, err
	}

	n := len(parsed.Organic)
	if n > MaxResults {
		n = MaxResults
	}
	results := make([]Result, 0, n)
	for _, item := range parsed.Organic[:n] {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

func (c *SerperClient) fetch(ctx context.Context, body []byte) (*serperResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &parsed, nil
}
