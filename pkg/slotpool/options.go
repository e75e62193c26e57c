package slotpool

import (
	"log/slog"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// poolConfig holds per-pool configuration shared by all pool kinds.
type poolConfig struct {
	name    string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// newPoolConfig applies options over the defaults for a pool kind.
func newPoolConfig(kind string, opts []Option) poolConfig {
	cfg := poolConfig{
		name:    kind,
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a pool at construction time.
type Option func(*poolConfig)

// WithName sets the pool name used in logs and metric attributes.
// Default: the pool kind ("split", "collect", "splitter", "replicate").
func WithName(name string) Option {
	return func(c *poolConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger enables structured logging of pool lifecycle events
// (registration, release, gather, reset, write). A nil logger disables
// logging, which is the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *poolConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for the pool.
// Default: no-op. Use observability.NewMetricsRecorder() for OpenTelemetry
// metrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *poolConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}
