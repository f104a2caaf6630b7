// Package logging provides the ports.Logger implementations: a console
// logger for the CLI and a silent one for tests.
package logging

import (
	"context"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// NopLogger discards everything. Tests inject it where a Logger is
// required but output is noise.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a silent logger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelInfo}
}

func (l *NopLogger) Debug(_ context.Context, _ string, _ ...ports.Field) {}
func (l *NopLogger) Info(_ context.Context, _ string, _ ...ports.Field)  {}
func (l *NopLogger) Warn(_ context.Context, _ string, _ ...ports.Field)  {}
func (l *NopLogger) Error(_ context.Context, _ string, _ ...ports.Field) {}

// With returns the logger unchanged; there is nothing to bind fields to.
func (l *NopLogger) With(_ ...ports.Field) ports.Logger {
	return l
}

// Level returns the configured level.
func (l *NopLogger) Level() ports.Level {
	return l.level
}

// SetLevel records the level; entries are discarded regardless.
func (l *NopLogger) SetLevel(level ports.Level) {
	l.level = level
}

var _ ports.Logger = (*NopLogger)(nil)
