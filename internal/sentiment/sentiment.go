// Package sentiment classifies user input as a best-effort analytics
// signal. Classification runs detached from the conversation turn; its
// latency and failures never reach the user.
package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/internal/llm"
	"github.com/custodia-ai/agent-platform/pkg/logger"
	"github.com/custodia-ai/agent-platform/pkg/metrics"
)

// Sentiment labels.
const (
	Positive = "POSITIVE"
	Neutral  = "NEUTRAL"
	Negative = "NEGATIVE"
)

const prompt = `Classify the sentiment of this text: %q.
Respond with ONLY one word: POSITIVE, NEUTRAL, or NEGATIVE.`

// Annotator performs fire-and-forget sentiment classification.
type Annotator struct {
	model   llm.Client
	audit   *audit.Logger
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAnnotator creates an annotator using the given model client.
func NewAnnotator(model llm.Client, auditLog *audit.Logger, log *logger.Logger, timeout time.Duration) *Annotator {
	return &Annotator{
		model:   model,
		audit:   auditLog,
		log:     log.With(zap.String("component", "sentiment")),
		timeout: timeout,
	}
}

// Classify asks the model for a one-word sentiment label.
func (a *Annotator) Classify(ctx context.Context, text string) (string, error) {
	resp, err := a.model.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(prompt, text),
		}},
		MaxTokens: 8,
	})
	if err != nil {
		return "", err
	}

	label := strings.ToUpper(strings.TrimSpace(resp.Text))
	switch label {
	case Positive, Neutral, Negative:
		return label, nil
	default:
		return "", fmt.Errorf("unexpected sentiment label %q", label)
	}
}

// Dispatch classifies text on a detached goroutine. Success records an
// ANALYTICS_SENTIMENT event; any failure records ANALYTICS_ERROR and is
// otherwise swallowed. Dispatch itself returns immediately.
func (a *Annotator) Dispatch(text string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("sentiment classification panicked", zap.Any("panic", r))
				a.audit.Record(audit.KindAnalyticsError, "Could not analyze sentiment")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		label, err := a.Classify(ctx, text)
		if err != nil {
			a.log.Warn("sentiment classification failed", zap.Error(err))
			a.audit.Record(audit.KindAnalyticsError, "Could not analyze sentiment")
			return
		}

		a.audit.Record(audit.KindAnalyticsSentiment, label)
		metrics.SentimentTotal.WithLabelValues(label).Inc()
	}()
}

// Wait blocks until all dispatched classifications settle. Used at
// session shutdown and in tests.
func (a *Annotator) Wait() {
	a.wg.Wait()
}
