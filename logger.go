package hmat

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hmat-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// It is the default of every matrix.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRows adds a rows field to the logger.
func (l *Logger) WithRows(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", n),
	}
}

// LogExtend logs a row push.
func (l *Logger) LogExtend(key Key, rows int, err error) {
	if err != nil {
		l.Warn("extend rejected",
			"type", key.String(),
			"rows", rows,
			"error", err,
		)
	} else {
		l.Debug("extend completed",
			"type", key.String(),
			"rows", rows,
		)
	}
}

// LogReform logs a view construction.
func (l *Logger) LogReform(keys []Key, err error) {
	if err != nil {
		l.Warn("reform rejected",
			"requested", len(keys),
			"error", err,
		)
	} else {
		l.Debug("reform completed",
			"rows", len(keys),
		)
	}
}

// LogApply logs a writer commit.
func (l *Logger) LogApply(buckets, mods int, err error) {
	if err != nil {
		l.Error("apply failed",
			"buckets", buckets,
			"mods", mods,
			"error", err,
		)
	} else {
		l.Debug("apply completed",
			"buckets", buckets,
			"mods", mods,
		)
	}
}

// LogMerge logs a writer merge.
func (l *Logger) LogMerge(mods int, err error) {
	if err != nil {
		l.Warn("merge rejected",
			"mods", mods,
			"error", err,
		)
	} else {
		l.Debug("merge completed",
			"mods", mods,
		)
	}
}

// LogMarshal logs an encode or decode of a whole matrix.
func (l *Logger) LogMarshal(op, codecName string, bytes int, err error) {
	if err != nil {
		l.Error(op+" failed",
			"codec", codecName,
			"error", err,
		)
	} else {
		l.Debug(op+" completed",
			"codec", codecName,
			"bytes", bytes,
		)
	}
}
