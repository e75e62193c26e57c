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

// MetricsRecorder records slotpool metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSlotRegister records a slot or reader registration.
	RecordSlotRegister(ctx context.Context, pool string)

	// RecordSlotRelease records a slot or reader release.
	RecordSlotRelease(ctx context.Context, pool string)

	// RecordGather records a pool drain with its value count and duration.
	RecordGather(ctx context.Context, pool string, values int, duration time.Duration)

	// RecordWrite records a replication broadcast and the number of
	// readers it invalidated.
	RecordWrite(ctx context.Context, pool string, readers int)

	// RecordRefresh records one stale-copy refresh on the reader side.
	RecordRefresh(ctx context.Context, pool string)

	// RecordSnapshot records a persisted aggregate and its encoded size.
	RecordSnapshot(ctx context.Context, pool string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	slotRegisters  metric.Int64Counter
	slotReleases   metric.Int64Counter
	gathers        metric.Int64Counter
	gatherValues   metric.Int64Histogram
	gatherLatency  metric.Float64Histogram
	writes         metric.Int64Counter
	writeFanout    metric.Int64Histogram
	refreshes      metric.Int64Counter
	snapshotSize   metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("slotpool")

	slotRegisters, err := meter.Int64Counter("slotpool.slot.registrations",
		metric.WithDescription("Number of slot registrations"),
	)
	if err != nil {
		return nil, err
	}

	slotReleases, err := meter.Int64Counter("slotpool.slot.releases",
		metric.WithDescription("Number of slot releases"),
	)
	if err != nil {
		return nil, err
	}

	gathers, err := meter.Int64Counter("slotpool.gathers",
		metric.WithDescription("Number of pool drains"),
	)
	if err != nil {
		return nil, err
	}

	gatherValues, err := meter.Int64Histogram("slotpool.gather.values",
		metric.WithDescription("Values returned per drain"),
	)
	if err != nil {
		return nil, err
	}

	gatherLatency, err := meter.Float64Histogram("slotpool.gather.latency_ms",
		metric.WithDescription("Drain latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter("slotpool.replicate.writes",
		metric.WithDescription("Number of replication broadcasts"),
	)
	if err != nil {
		return nil, err
	}

	writeFanout, err := meter.Int64Histogram("slotpool.replicate.fanout",
		metric.WithDescription("Readers invalidated per broadcast"),
	)
	if err != nil {
		return nil, err
	}

	refreshes, err := meter.Int64Counter("slotpool.replicate.refreshes",
		metric.WithDescription("Number of stale-copy refreshes"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("slotpool.snapshot.size_bytes",
		metric.WithDescription("Snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		slotRegisters: slotRegisters,
		slotReleases:  slotReleases,
		gathers:       gathers,
		gatherValues:  gatherValues,
		gatherLatency: gatherLatency,
		writes:        writes,
		writeFanout:   writeFanout,
		refreshes:     refreshes,
		snapshotSize:  snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func poolAttr(pool string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("pool", pool))
}

// RecordSlotRegister records a slot registration.
func (m *otelMetrics) RecordSlotRegister(ctx context.Context, pool string) {
	m.slotRegisters.Add(ctx, 1, poolAttr(pool))
}

// RecordSlotRelease records a slot release.
func (m *otelMetrics) RecordSlotRelease(ctx context.Context, pool string) {
	m.slotReleases.Add(ctx, 1, poolAttr(pool))
}

// RecordGather records a pool drain.
func (m *otelMetrics) RecordGather(ctx context.Context, pool string, values int, duration time.Duration) {
	attrs := poolAttr(pool)
	m.gathers.Add(ctx, 1, attrs)
	m.gatherValues.Record(ctx, int64(values), attrs)
	m.gatherLatency.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
}

// RecordWrite records a replication broadcast.
func (m *otelMetrics) RecordWrite(ctx context.Context, pool string, readers int) {
	attrs := poolAttr(pool)
	m.writes.Add(ctx, 1, attrs)
	m.writeFanout.Record(ctx, int64(readers), attrs)
}

// RecordRefresh records one stale-copy refresh.
func (m *otelMetrics) RecordRefresh(ctx context.Context, pool string) {
	m.refreshes.Add(ctx, 1, poolAttr(pool))
}

// RecordSnapshot records a persisted aggregate.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, pool string, sizeBytes int64) {
	m.snapshotSize.Record(ctx, sizeBytes, poolAttr(pool))
}
