package booksearch

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with consistent field names for index and loader
// events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, logs go to stderr as text at info level.
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

// NewTextLogger creates a Logger writing human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger writing JSON lines to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithRunID tags every line with a load run id.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// LogInsert logs one book insert.
func (l *Logger) LogInsert(ctx context.Context, title string, rating float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"title", title,
			"rating", rating,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "insert completed",
		"title", title,
		"rating", rating,
	)
}

// LogSearch logs an index lookup.
func (l *Logger) LogSearch(ctx context.Context, index string, query any, results int, err error) {
	if err != nil {
		l.WarnContext(ctx, "search failed",
			"index", index,
			"query", query,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"index", index,
		"query", query,
		"results", results,
	)
}

// LogLoad logs the outcome of a load run.
func (l *Logger) LogLoad(ctx context.Context, source string, loaded, duplicates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", source,
			"loaded", loaded,
			"error", err,
		)
		return
	}
	if duplicates > 0 {
		l.WarnContext(ctx, "load completed with duplicate rows",
			"source", source,
			"loaded", loaded,
			"duplicates", duplicates,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"source", source,
		"loaded", loaded,
	)
}
