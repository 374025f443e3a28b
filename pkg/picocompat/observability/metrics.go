package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records picocompat metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInvocation records one legacy handler call.
	RecordInvocation(ctx context.Context, legacy, plugin string, duration time.Duration, err error)

	// RecordReindex records a page index rebuild.
	RecordReindex(ctx context.Context, pages, duplicates int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	invocations metric.Int64Counter
	errors      metric.Int64Counter
	latency     metric.Float64Histogram
	pages       metric.Int64Histogram
	duplicates  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("picocompat")

	invocations, err := meter.Int64Counter("picocompat.legacy.invocations",
		metric.WithDescription("Number of legacy handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("picocompat.legacy.errors",
		metric.WithDescription("Number of legacy handler errors"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("picocompat.legacy.latency_ms",
		metric.WithDescription("Legacy handler latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	pages, err := meter.Int64Histogram("picocompat.reindex.pages",
		metric.WithDescription("Pages in a rebuilt page index"),
	)
	if err != nil {
		return nil, err
	}

	duplicates, err := meter.Int64Counter("picocompat.reindex.duplicates",
		metric.WithDescription("Pages that needed a ~dup suffix"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		invocations: invocations,
		errors:      errs,
		latency:     latency,
		pages:       pages,
		duplicates:  duplicates,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider; configure it with
// otel.SetMeterProvider before calling this function.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInvocation records a legacy handler call.
func (m *otelMetrics) RecordInvocation(ctx context.Context, legacy, plugin string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("legacy_event", legacy),
		attribute.String("plugin", plugin),
	)

	m.invocations.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

// RecordReindex records a page index rebuild.
func (m *otelMetrics) RecordReindex(ctx context.Context, pages, duplicates int) {
	m.pages.Record(ctx, int64(pages))
	if duplicates > 0 {
		m.duplicates.Add(ctx, int64(duplicates))
	}
}
