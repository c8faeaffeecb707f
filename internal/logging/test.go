package logging

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Entry is one message captured by TestLogger.
type Entry struct {
	Level   string
	Message string
	Fields  string
}

// TestLogger implements types.Logger using testing.TB for output.
//
// Besides forwarding to t.Logf it records every entry so tests can assert on
// what was logged.
type TestLogger struct {
	t testing.TB

	mu      sync.Mutex
	entries []Entry
}

// Compile-time assertion that TestLogger implements Logger.
var _ types.Logger = (*TestLogger)(nil)

// NewTest creates a new test logger that writes to t.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NewTest(t)
//	    logger.Info("test started", "id", 123)
//	}
func NewTest(t testing.TB) *TestLogger {
	return &TestLogger{t: t}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

// Info logs an info-level message with optional key-value pairs.
func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

// Error logs an error-level message with optional key-value pairs.
func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

// Fatal logs a fatal-level message and fails the test.
func (l *TestLogger) Fatal(msg string, keysAndValues ...any) {
	l.record("FATAL", msg, keysAndValues)
	l.t.Fatalf("FATAL: %s %s", msg, formatKeyValues(keysAndValues))
}

// Entries returns a copy of the captured entries.
func (l *TestLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Entry(nil), l.entries...)
}

// Count returns how many entries at level contain msg.
func (l *TestLogger) Count(level, msg string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			n++
		}
	}

	return n
}

func (l *TestLogger) log(level, msg string, keysAndValues []any) {
	l.record(level, msg, keysAndValues)
	l.t.Logf("%s: %s %s", level, msg, formatKeyValues(keysAndValues))
}

func (l *TestLogger) record(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Level: level, Message: msg, Fields: formatKeyValues(keysAndValues)})
}

// formatKeyValues formats key-value pairs for logging.
func formatKeyValues(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&sb, "%v=%v ", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&sb, "%v=<missing> ", keysAndValues[i])
		}
	}

	return strings.TrimSuffix(sb.String(), " ")
}
