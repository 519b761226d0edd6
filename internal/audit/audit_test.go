package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-ai/agent-platform/pkg/logger"
)

func openTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestRecordRedactsContent(t *testing.T) {
	l, path := openTestLogger(t)

	l.Record(KindUserInput, "my email is jane@example.com, phone 415-555-0134")

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindUserInput, events[0].Type)
	assert.Equal(t, "my email is [REDACTED_EMAIL], phone [REDACTED_PHONE]", events[0].Content)

	_, err = time.Parse(time.RFC3339, events[0].Timestamp)
	assert.NoError(t, err, "timestamp must be RFC3339")
}

func TestRecordSerializesStructuredContent(t *testing.T) {
	l, path := openTestLogger(t)

	l.Record(KindToolResult, map[string]any{"error": "User not found", "email": "ghost@void.org"})

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Content, `"error":"User not found"`)
	assert.Contains(t, events[0].Content, "[REDACTED_EMAIL]")
	assert.NotContains(t, events[0].Content, "ghost@void.org")
}

func TestRecordPreservesInsertionOrder(t *testing.T) {
	l, path := openTestLogger(t)

	kinds := []Kind{KindSystem, KindUserInput, KindToolExecution, KindToolResult, KindAgentResponse}
	for _, k := range kinds {
		l.Record(k, string(k))
	}

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, len(kinds))
	for i, k := range kinds {
		assert.Equal(t, k, events[i].Type)
	}
}

func TestReadEventsSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	content := `{"timestamp":"2026-08-28T10:00:00Z","type":"SYSTEM","content":"started"}
not json at all
{"timestamp":"2026-08-28T10:00:01Z","type":"ERROR","content":"boom"}
{"timestamp":"2026-08-28T10:00:02Z","type":"AGENT_RESPONSE","content":"trunc`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, KindSystem, events[0].Type)
	assert.Equal(t, KindError, events[1].Type)
}

func TestReadEventsMissingFile(t *testing.T) {
	events, err := ReadEvents(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.NoError(t, err)
	assert.Empty(t, events)
}

type captureSink struct {
	events []Event
}

func (s *captureSink) Publish(ev Event) { s.events = append(s.events, ev) }

func TestSinkReceivesRedactedEvents(t *testing.T) {
	l, _ := openTestLogger(t)
	sink := &captureSink{}
	l.AddSink(sink)

	l.Record(KindAgentResponse, "reach me at ops@example.io")

	require.Len(t, sink.events, 1)
	assert.Equal(t, "reach me at [REDACTED_EMAIL]", sink.events[0].Content)
}

func TestDroppedCountsWriteFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path, logger.NewNop())
	require.NoError(t, err)

	// Closing the handle forces the next append to fail; the turn must
	// proceed and the loss must be counted.
	require.NoError(t, l.Close())
	l.Record(KindSystem, "after close")

	assert.Equal(t, uint64(1), l.Dropped())
}
