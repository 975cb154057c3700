// Package logging provides the levelled diagnostic logger used across servicebook.
// Diagnostics never reach the user-facing form; they go to stderr, a JSON stream,
// or a sink installed by the terminal host.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

type contextKey string

const sessionIDKey contextKey = "session_id"

// Entry is the JSON shape of one log line.
type Entry struct {
	Timestamp string         `json:"ts"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	SessionID string         `json:"session_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// output is shared between a logger and the children derived from it,
// so redirecting the root also redirects every child.
type output struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	json  bool
}

// Logger is a structured logger with level support.
type Logger struct {
	out    *output
	fields map[string]any
}

var defaultLogger = New()

// New creates a logger writing to stderr. LOG_LEVEL and LOG_FORMAT=json are honoured.
func New() *Logger {
	return NewWithWriter(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")), os.Getenv("LOG_FORMAT") == "json")
}

// NewWithWriter creates a logger with explicit settings.
func NewWithWriter(w io.Writer, level Level, jsonFormat bool) *Logger {
	return &Logger{
		out:    &output{w: w, level: level, json: jsonFormat},
		fields: map[string]any{},
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, LevelError+1, false)
}

// SetOutput redirects this logger and all loggers derived from it.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

// SetJSON enables or disables JSON output format.
func (l *Logger) SetJSON(enabled bool) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.json = enabled
}

// WithField returns a child logger carrying one extra field.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a child logger carrying the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, fields: merged}
}

func (l *Logger) log(ctx context.Context, level Level, format string, args ...any) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.out.level {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var sessionID string
	if ctx != nil {
		sessionID, _ = ctx.Value(sessionIDKey).(string)
	}

	if l.out.json {
		entry := Entry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     level.String(),
			Message:   msg,
			SessionID: sessionID,
		}
		if len(l.fields) > 0 {
			entry.Fields = l.fields
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out.w, "ERROR: failed to marshal log entry: %v\n", err)
			return
		}
		fmt.Fprintln(l.out.w, string(data))
		return
	}

	parts := []string{time.Now().Format("2006/01/02 15:04:05")}
	if sessionID != "" {
		if len(sessionID) > 8 {
			sessionID = sessionID[:8]
		}
		parts = append(parts, "["+sessionID+"]")
	}
	parts = append(parts, "["+level.String()+"]", msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		parts = append(parts, "{"+strings.Join(fieldParts, ", ")+"}")
	}

	fmt.Fprintln(l.out.w, strings.Join(parts, " "))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(context.Background(), LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.log(context.Background(), LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(context.Background(), LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(context.Background(), LevelError, format, args...)
}

// InfoContext logs an info message tagged with the session id in ctx.
func (l *Logger) InfoContext(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelInfo, format, args...)
}

// ErrorContext logs an error message tagged with the session id in ctx.
func (l *Logger) ErrorContext(ctx context.Context, format string, args ...any) {
	l.log(ctx, LevelError, format, args...)
}

// WithSessionID returns a context whose log lines are tagged with id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID retrieves the session id from ctx.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}
