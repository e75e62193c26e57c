// Package observability provides structured logging, metrics, and
// tracing for slotpool.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// All log helpers are nil-safe: a nil logger disables logging, so pools
// call them unconditionally.

// LogSlotRegister logs a slot (or reader) registration.
func LogSlotRegister(logger *slog.Logger, pool string) {
	if logger == nil {
		return
	}
	logger.Debug("slot registered",
		slog.String("pool", pool),
	)
}

// LogSlotRelease logs a slot (or reader) release.
func LogSlotRelease(logger *slog.Logger, pool string) {
	if logger == nil {
		return
	}
	logger.Debug("slot released",
		slog.String("pool", pool),
	)
}

// LogGather logs a pool drain.
func LogGather(logger *slog.Logger, pool string, values int) {
	if logger == nil {
		return
	}
	logger.Info("pool gathered",
		slog.String("pool", pool),
		slog.Int("values", values),
	)
}

// LogReset logs a pool reset.
func LogReset(logger *slog.Logger, pool string) {
	if logger == nil {
		return
	}
	logger.Info("pool reset",
		slog.String("pool", pool),
	)
}

// LogWrite logs a replication broadcast.
func LogWrite(logger *slog.Logger, pool string, readers int) {
	if logger == nil {
		return
	}
	logger.Info("value broadcast",
		slog.String("pool", pool),
		slog.Int("readers", readers),
	)
}

// LogSnapshotSave logs a persisted aggregate.
func LogSnapshotSave(logger *slog.Logger, snapshotID, pool string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("snapshot saved",
		slog.String("snapshot_id", snapshotID),
		slog.String("pool", pool),
		slog.Int("size_bytes", sizeBytes),
	)
}
