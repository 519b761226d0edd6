// Package audit implements the append-only audit trail: the single
// source of truth for everything the agent did in a session.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/redact"
	"github.com/custodia-ai/agent-platform/pkg/logger"
	"github.com/custodia-ai/agent-platform/pkg/metrics"
)

// Sink receives redacted events in addition to the log file. Sinks must
// not block; failures are contained by the sink itself.
type Sink interface {
	Publish(Event)
}

// Logger appends redacted, timestamped events to a JSONL file.
//
// Record never returns an error: a failure to persist must not crash
// the orchestration loop. Dropped events are counted and reported via
// the operational logger and metrics instead.
type Logger struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	sinks   []Sink
	log     *logger.Logger
	dropped atomic.Uint64
}

// Open opens (or creates) the audit log at path for appending.
func Open(path string, log *logger.Logger) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &Logger{
		f:    f,
		path: path,
		log:  log.With(zap.String("component", "audit")),
	}, nil
}

// AddSink attaches an additional destination for redacted events.
// Must be called before the session starts producing events.
func (l *Logger) AddSink(s Sink) {
	l.mu.Lock()
	l.sinks = append(l.sinks, s)
	l.mu.Unlock()
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Record serializes content, redacts it and appends one event line.
// Structured values are JSON-encoded to text before redaction so the
// persisted record always stores a redacted string, never a raw value.
func (l *Logger) Record(kind Kind, content any) {
	ev := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Type:      kind,
		Content:   redact.Redact(serialize(content)),
	}

	line, err := json.Marshal(ev)
	if err != nil {
		l.drop(kind, err)
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	// One write call per event keeps appends line-atomic even when
	// several processes share the file through O_APPEND.
	if _, err := l.f.Write(line); err != nil {
		l.drop(kind, err)
		return
	}

	metrics.RecordAuditEvent(string(ev.Type))
	for _, s := range l.sinks {
		s.Publish(ev)
	}
}

// Dropped reports how many events were lost to write failures.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

func (l *Logger) drop(kind Kind, err error) {
	l.dropped.Add(1)
	metrics.AuditDroppedTotal.Inc()
	l.log.Warn("audit event dropped", zap.String("type", string(kind)), zap.Error(err))
}

func serialize(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
