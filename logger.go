package recotarget

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with classification-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRunID tags every record with the run identifier.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithTarget adds a 1-based target field, as shown to users.
func (l *Logger) WithTarget(label int) *Logger {
	return &Logger{
		Logger: l.Logger.With("target", label+1),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithMetric adds the metric name to the logger.
func (l *Logger) WithMetric(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", name),
	}
}

// LogCompare logs the cross-comparison of one testing and one learning
// collection.
func (l *Logger) LogCompare(ctx context.Context, testing, learning int, comparisons int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compare failed",
			"testing", testing+1,
			"learning", learning+1,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compare completed",
			"testing", testing+1,
			"learning", learning+1,
			"comparisons", comparisons,
			"elapsed", elapsed,
		)
	}
}

// LogScore logs the score of one testing target.
func (l *Logger) LogScore(ctx context.Context, target int, score float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "score failed",
			"target", target+1,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "target scored",
			"target", target+1,
			"score", score,
		)
	}
}

// LogSummary logs the aggregate statistics of a run.
func (l *Logger) LogSummary(ctx context.Context, s Summary) {
	l.InfoContext(ctx, "classification completed",
		"targets", s.Count,
		"mean", s.Mean,
		"stddev", s.StdDev,
		"min", s.Min,
		"max", s.Max,
	)
}
