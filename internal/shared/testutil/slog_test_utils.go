package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// LogRecord is one captured log line with its attributes flattened.
// Group names prefix attribute keys with a dot.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logSink is shared by a handler and every handler derived from it with
// WithAttrs or WithGroup.
type logSink struct {
	mu       sync.Mutex
	records  []LogRecord
	t        testing.TB
	finished bool
}

// BufferedSlogHandler records every log call for later assertions and
// echoes it to the test log while the test is running.
type BufferedSlogHandler struct {
	sink   *logSink
	attrs  []slog.Attr
	prefix string
}

// NewBufferedSlogHandler returns a handler bound to t. Records written
// after t completes are kept but no longer echoed.
func NewBufferedSlogHandler(t testing.TB) *BufferedSlogHandler {
	sink := &logSink{t: t}
	if t != nil {
		t.Cleanup(func() {
			sink.mu.Lock()
			sink.finished = true
			sink.mu.Unlock()
		})
	}
	return &BufferedSlogHandler{sink: sink}
}

// NewTestLogger returns a logger writing into a fresh BufferedSlogHandler
func NewTestLogger(t testing.TB) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Any()
		return true
	})

	s := h.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, LogRecord{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: attrs})
	if s.t != nil && !s.finished {
		s.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &BufferedSlogHandler{sink: h.sink, attrs: merged, prefix: h.prefix}
}

func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &BufferedSlogHandler{sink: h.sink, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// GetRecords returns a snapshot of the captured records
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	s := h.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

// GetRecordsByLevel returns the captured records at exactly level
func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	var out []LogRecord
	for _, r := range h.GetRecords() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage reports whether any record message contains message
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	for _, r := range h.GetRecords() {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries key with value
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.GetRecords() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

func (h *BufferedSlogHandler) Clear() {
	h.sink.mu.Lock()
	h.sink.records = nil
	h.sink.mu.Unlock()
}

func (h *BufferedSlogHandler) Count() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.records)
}

// AssertLogContains fails t unless a record at level contains message
func AssertLogContains(t testing.TB, h *BufferedSlogHandler, level slog.Level, message string) bool {
	t.Helper()
	records := h.GetRecordsByLevel(level)
	for _, r := range records {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return assert.Fail(t, fmt.Sprintf("no %s log containing %q", level, message), describe(records))
}

// AssertLogAttr fails t unless some record carries key with value
func AssertLogAttr(t testing.TB, h *BufferedSlogHandler, key string, value any) bool {
	t.Helper()
	if h.ContainsAttr(key, value) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("no log with %s=%v", key, value), describe(h.GetRecords()))
}

// AssertNoErrors fails t if anything was logged at error level
func AssertNoErrors(t testing.TB, h *BufferedSlogHandler) bool {
	t.Helper()
	errs := h.GetRecordsByLevel(slog.LevelError)
	if len(errs) == 0 {
		return true
	}
	return assert.Fail(t, "unexpected error logs", describe(errs))
}

func describe(records []LogRecord) string {
	var b strings.Builder
	b.WriteString("captured:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n  [%s] %s %v", r.Level, r.Message, r.Attrs)
	}
	return b.String()
}
