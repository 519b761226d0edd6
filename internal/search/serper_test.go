package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SerperClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewSerperClient("test-key")
	c.endpoint = srv.URL
	return c
}

func TestSerperSearchTruncatesToTopThree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang jsonl", req["q"])

		json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "one", "link": "https://a", "snippet": "s1"},
				{"title": "two", "link": "https://b", "snippet": "s2"},
				{"title": "three", "link": "https://c", "snippet": "s3"},
				{"title": "four", "link": "https://d", "snippet": "s4"},
				{"title": "five", "link": "https://e", "snippet": "s5"},
			},
		})
	})

	results, err := c.Search(context.Background(), "golang jsonl")
	require.NoError(t, err)
	require.Len(t, results, MaxResults)
	assert.Equal(t, "one", results[0].Title)
	assert.Equal(t, "https://c", results[2].URL)
}

func TestSerperSearchEmptyOrganic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	})

	results, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSerperSearchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestSerperSearchRetriesOnce(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "recovered", "link": "https://r", "snippet": ""},
			},
		})
	})

	results, err := c.Search(context.Background(), "flaky")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, calls)
}
