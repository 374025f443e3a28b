// Package observability provides logging, metrics and tracing for
// picocompat's legacy event dispatch.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds dispatch context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "4f1c...", "onContentParsed")
//	enriched.Debug("dispatching") // includes firing_id, canonical
func EnrichLogger(logger *slog.Logger, firingID, canonical string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("firing_id", firingID),
		slog.String("canonical", canonical),
	)
}

// LogDispatch logs a canonical event being translated.
func LogDispatch(logger *slog.Logger, canonical string, legacy []string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatching legacy aliases",
		slog.String("canonical", canonical),
		slog.Any("legacy", legacy),
	)
}

// LogInvocation logs a completed legacy handler call.
func LogInvocation(logger *slog.Logger, legacy, plugin string, revision int, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("legacy handler invoked",
		slog.String("legacy", legacy),
		slog.String("plugin", plugin),
		slog.Int("revision", revision),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogHandlerError logs a failed legacy handler. The error is still
// returned to the host; this only records it.
func LogHandlerError(logger *slog.Logger, legacy, plugin string, err error) {
	if logger == nil {
		return
	}
	logger.Error("legacy handler failed",
		slog.String("legacy", legacy),
		slog.String("plugin", plugin),
		slog.String("error", err.Error()),
	)
}

// LogReindex logs the outcome of rebuilding the page index.
func LogReindex(logger *slog.Logger, pages, duplicates, unknown int) {
	if logger == nil {
		return
	}
	logger.Debug("pages reindexed",
		slog.Int("pages", pages),
		slog.Int("duplicates", duplicates),
		slog.Int("unknown", unknown),
	)
}

// LogConstantSkipped logs an attempt to redefine a constant.
func LogConstantSkipped(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("constant already defined",
		slog.String("name", name),
	)
}

// LogJournalError logs a journal write failure (non-fatal).
func LogJournalError(logger *slog.Logger, legacy string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.String("legacy", legacy),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
