package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// ConsoleLogger writes structured log lines to a terminal. Text output by
// default; JSON is available for runs whose output gets collected.
type ConsoleLogger struct {
	mu        sync.Mutex
	out       io.Writer
	level     ports.Level
	bound     []ports.Field
	asJSON    bool
	showTime  bool
	showLevel bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.out = w }
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.level = level }
}

// WithJSONFormat switches output to one JSON object per line.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.asJSON = enabled }
}

// WithTimestamp toggles the time prefix on entries.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.showTime = enabled }
}

// WithLevelLabel toggles the level label on entries.
func WithLevelLabel(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) { l.showLevel = enabled }
}

// NewConsoleLogger creates a console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:       os.Stderr,
		level:     ports.LevelInfo,
		showTime:  true,
		showLevel: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debug logs at debug level.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.write(ctx, ports.LevelDebug, msg, fields)
}

// Info logs at info level.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.write(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs at warn level.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.write(ctx, ports.LevelWarn, msg, fields)
}

// Error logs at error level.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.write(ctx, ports.LevelError, msg, fields)
}

// With returns a logger that adds the given fields to every entry.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	clone := &ConsoleLogger{
		out:       l.out,
		level:     l.level,
		bound:     append(append([]ports.Field(nil), l.bound...), fields...),
		asJSON:    l.asJSON,
		showTime:  l.showTime,
		showLevel: l.showLevel,
	}
	return clone
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) write(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	all := append(append([]ports.Field(nil), l.bound...), fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.asJSON {
		_, _ = fmt.Fprintln(l.out, l.renderJSON(level, msg, all))
		return
	}
	_, _ = fmt.Fprintln(l.out, l.renderText(level, msg, all))
}

func (l *ConsoleLogger) renderJSON(level ports.Level, msg string, fields []ports.Field) string {
	entry := make(map[string]interface{}, len(fields)+3)
	if l.showTime {
		entry["time"] = time.Now().UTC().Format(time.RFC3339)
	}
	if l.showLevel {
		entry["level"] = level.String()
	}
	entry["msg"] = msg
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"msg":%q}`, msg)
	}
	return string(data)
}

func (l *ConsoleLogger) renderText(level ports.Level, msg string, fields []ports.Field) string {
	var b strings.Builder
	if l.showTime {
		b.WriteString(time.Now().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if l.showLevel {
		fmt.Fprintf(&b, "[%s] ", level.String())
	}
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

var _ ports.Logger = (*ConsoleLogger)(nil)
