package stats

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

func newLog(t *testing.T) (*audit.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	auditLog, err := audit.Open(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { auditLog.Close() })
	return auditLog, path
}

func TestComputeMissingLog(t *testing.T) {
	summary, err := Compute(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)

	assert.Empty(t, summary.Logs)
	assert.Zero(t, summary.Stats.TotalActions)
	assert.Zero(t, summary.Stats.Errors)
	assert.Equal(t, MoodWaiting, summary.Stats.Mood)
}

func TestComputeCountsAndMood(t *testing.T) {
	auditLog, path := newLog(t)
	auditLog.Record(audit.KindUserInput, "hello")
	auditLog.Record(audit.KindAgentResponse, "hi")
	auditLog.Record(audit.KindError, "model unavailable")
	auditLog.Record(audit.KindCritical, "Maximum execution loops reached.")
	auditLog.Record(audit.KindAnalyticsSentiment, "POSITIVE")
	auditLog.Record(audit.KindAnalyticsSentiment, "NEGATIVE")
	auditLog.Record(audit.KindAnalyticsSentiment, "POSITIVE")

	summary, err := Compute(path)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Stats.TotalActions)
	assert.Equal(t, 2, summary.Stats.Errors, "ERROR and CRITICAL both count")
	assert.Equal(t, "POSITIVE", summary.Stats.Mood)
}

func TestComputeMoodComparesPositiveAgainstNegative(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{name: "neutral never decides", labels: []string{"NEUTRAL", "NEUTRAL", "NEUTRAL", "POSITIVE"}, want: "POSITIVE"},
		{name: "tie reads neutral", labels: []string{"POSITIVE", "POSITIVE", "NEGATIVE", "NEGATIVE"}, want: "NEUTRAL"},
		{name: "all neutral is neutral", labels: []string{"NEUTRAL", "NEUTRAL"}, want: "NEUTRAL"},
		{name: "negative outweighs", labels: []string{"NEGATIVE", "NEGATIVE", "POSITIVE"}, want: "NEGATIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLog, path := newLog(t)
			for _, label := range tt.labels {
				auditLog.Record(audit.KindAnalyticsSentiment, label)
			}

			summary, err := Compute(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summary.Stats.Mood)
		})
	}
}

func TestComputeMoodWaitingWithoutAnnotations(t *testing.T) {
	auditLog, path := newLog(t)
	auditLog.Record(audit.KindUserInput, "hello")
	auditLog.Record(audit.KindAnalyticsError, "Could not analyze sentiment")

	summary, err := Compute(path)
	require.NoError(t, err)

	assert.Equal(t, MoodWaiting, summary.Stats.Mood, "analytics failures cast no vote")
}

func TestComputeLogsNewestFirstCapped(t *testing.T) {
	auditLog, path := newLog(t)
	for i := 0; i < 60; i++ {
		auditLog.Record(audit.KindUserInput, fmt.Sprintf("message %d", i))
	}

	summary, err := Compute(path)
	require.NoError(t, err)

	require.Len(t, summary.Logs, 50)
	assert.Equal(t, "message 59", summary.Logs[0].Content)
	assert.Equal(t, "message 10", summary.Logs[49].Content)
	assert.Equal(t, 60, summary.Stats.TotalActions, "totals cover the whole log")
}

func TestComputeUnknownKindsAreOpaque(t *testing.T) {
	auditLog, path := newLog(t)
	auditLog.Record(audit.Kind("FUTURE_KIND"), "payload")
	auditLog.Record(audit.KindError, "boom")

	summary, err := Compute(path)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Stats.TotalActions)
	assert.Equal(t, 1, summary.Stats.Errors)
}
