// Package stats builds a read model over the audit trail. It derives
// everything from the log file on demand and holds no state of its own.
package stats

import (
	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/internal/sentiment"
)

// MoodWaiting is reported until at least one sentiment annotation exists.
const MoodWaiting = "WAITING"

// maxLogs caps how many recent events a summary carries.
const maxLogs = 50

// Totals aggregates counters over the full log, not just the
// truncated tail.
type Totals struct {
	TotalActions int    `json:"totalActions"`
	Errors       int    `json:"errors"`
	Mood         string `json:"mood"`
}

// Summary is the stats payload served to dashboards.
type Summary struct {
	Logs  []audit.Event `json:"logs"`
	Stats Totals        `json:"stats"`
}

// Compute reads the audit log at path and derives a summary. A missing
// log yields the zero state rather than an error.
func Compute(path string) (*Summary, error) {
	events, err := audit.ReadEvents(path)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Logs: recentNewestFirst(events),
		Stats: Totals{
			TotalActions: len(events),
			Mood:         MoodWaiting,
		},
	}

	annotations, positive, negative := 0, 0, 0
	for _, ev := range events {
		switch ev.Type {
		case audit.KindError, audit.KindCritical:
			summary.Stats.Errors++
		case audit.KindAnalyticsSentiment:
			annotations++
			switch ev.Content {
			case sentiment.Positive:
				positive++
			case sentiment.Negative:
				negative++
			}
		}
	}
	summary.Stats.Mood = mood(annotations, positive, negative)

	return summary, nil
}

func recentNewestFirst(events []audit.Event) []audit.Event {
	n := len(events)
	if n > maxLogs {
		events = events[n-maxLogs:]
		n = maxLogs
	}
	out := make([]audit.Event, n)
	for i, ev := range events {
		out[n-1-i] = ev
	}
	return out
}

// mood compares positive against negative annotations. Neutral ones
// count toward the annotation total but never decide, and a tie reads
// as NEUTRAL.
func mood(annotations, positive, negative int) string {
	switch {
	case annotations == 0:
		return MoodWaiting
	case positive > negative:
		return sentiment.Positive
	case negative > positive:
		return sentiment.Negative
	default:
		return sentiment.Neutral
	}
}
