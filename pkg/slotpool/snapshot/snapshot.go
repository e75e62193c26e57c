package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// spans traces Archive and Restore through the global OTel tracer
// provider; with no provider configured the spans are no-ops.
var spans = observability.NewSpanManager()

// archiveConfig holds per-call observability wiring for Archive and
// Restore.
type archiveConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func newArchiveConfig(opts []Option) archiveConfig {
	cfg := archiveConfig{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures one Archive or Restore call.
type Option func(*archiveConfig)

// WithLogger enables structured logging of persisted aggregates. A nil
// logger disables logging, which is the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *archiveConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder used to record aggregate sizes.
// Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *archiveConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewID returns a fresh snapshot ID.
func NewID() string {
	return uuid.NewString()
}

// Archive serializes a gathered aggregate as JSON and stores it under
// (snapshotID, pool). Pass it the slice a pool's Gather returned:
//
//	id := snapshot.NewID()
//	if err := snapshot.Archive(ctx, store, id, "word-counts", acc.Gather()); err != nil {
//	    ...
//	}
//
// T must be JSON-serializable; values that are not round-trippable
// through encoding/json will not restore faithfully.
func Archive[T any](ctx context.Context, store Store, snapshotID, pool string, values []T, opts ...Option) (err error) {
	ctx, span := spans.StartArchiveSpan(ctx, snapshotID, pool)
	defer func() { spans.EndSpanWithError(span, err) }()

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("serialize aggregate: %w", err)
	}
	if err := store.Save(snapshotID, pool, data); err != nil {
		return fmt.Errorf("store aggregate: %w", err)
	}

	cfg := newArchiveConfig(opts)
	cfg.metrics.RecordSnapshot(ctx, pool, int64(len(data)))
	observability.LogSnapshotSave(cfg.logger, snapshotID, pool, len(data))
	return nil
}

// Restore loads and deserializes the aggregate stored under
// (snapshotID, pool). Returns ErrNotFound (wrapped) if no aggregate was
// archived there.
func Restore[T any](ctx context.Context, store Store, snapshotID, pool string) (values []T, err error) {
	ctx, span := spans.StartRestoreSpan(ctx, snapshotID, pool)
	defer func() { spans.EndSpanWithError(span, err) }()

	data, err := store.Load(snapshotID, pool)
	if err != nil {
		return nil, fmt.Errorf("load aggregate: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("deserialize aggregate: %w", err)
	}
	return values, nil
}
