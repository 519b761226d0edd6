package sentiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/internal/llm"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

type fakeModel struct {
	text string
	err  error
}

func (m *fakeModel) Name() string { return "fake" }
func (m *fakeModel) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llm.ChatResponse{Text: m.text}, nil
}

func newAnnotator(t *testing.T, model llm.Client) (*Annotator, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	auditLog, err := audit.Open(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { auditLog.Close() })
	return NewAnnotator(model, auditLog, logger.NewNop(), 5*time.Second), path
}

func TestClassify(t *testing.T) {
	tests := []struct {
		reply   string
		want    string
		wantErr bool
	}{
		{reply: "POSITIVE", want: Positive},
		{reply: " negative \n", want: Negative},
		{reply: "NEUTRAL", want: Neutral},
		{reply: "I think it's positive!", wantErr: true},
		{reply: "", wantErr: true},
	}

	for _, tt := range tests {
		a, _ := newAnnotator(t, &fakeModel{text: tt.reply})
		got, err := a.Classify(context.Background(), "some input")
		if tt.wantErr {
			assert.Error(t, err, "reply %q", tt.reply)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDispatchRecordsSentiment(t *testing.T) {
	a, path := newAnnotator(t, &fakeModel{text: "POSITIVE"})

	a.Dispatch("I love this service")
	a.Wait()

	events, err := audit.ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindAnalyticsSentiment, events[0].Type)
	assert.Equal(t, Positive, events[0].Content)
}

func TestDispatchSwallowsFailures(t *testing.T) {
	a, path := newAnnotator(t, &fakeModel{err: errors.New("service down")})

	a.Dispatch("whatever")
	a.Wait()

	events, err := audit.ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindAnalyticsError, events[0].Type)
	assert.Equal(t, "Could not analyze sentiment", events[0].Content)
}

type panickyModel struct{}

func (panickyModel) Name() string { return "panicky" }
func (panickyModel) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	panic("model client bug")
}

func TestDispatchContainsPanics(t *testing.T) {
	a, path := newAnnotator(t, panickyModel{})

	// Must not take the process down.
	a.Dispatch("whatever")
	a.Wait()

	events, err := audit.ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.KindAnalyticsError, events[0].Type)
}
