// Package snapshot persists gathered pool aggregates so they survive
// process restarts. A snapshot groups one or more named aggregates (one
// per pool) under a snapshot ID; Archive serializes the values a Gather
// returned, Restore brings them back.
package snapshot

import (
	"errors"
	"time"
)

// Store persists serialized aggregates.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the aggregate for a pool within a snapshot.
	// Overwrites if an aggregate for (snapshotID, pool) already exists.
	Save(snapshotID, pool string, data []byte) error

	// Load retrieves an aggregate.
	// Returns ErrNotFound if it doesn't exist.
	Load(snapshotID, pool string) ([]byte, error)

	// List returns metadata for all aggregates in a snapshot, ordered by
	// sequence. Returns an empty slice (not an error) for an unknown
	// snapshot.
	List(snapshotID string) ([]Info, error)

	// Delete removes one aggregate. Returns nil if it doesn't exist.
	Delete(snapshotID, pool string) error

	// DeleteSnapshot removes every aggregate in a snapshot.
	// Returns nil if the snapshot is unknown.
	DeleteSnapshot(snapshotID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides aggregate metadata without loading the data.
type Info struct {
	SnapshotID string
	Pool       string
	Sequence   int
	Timestamp  time.Time
	Size       int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates the aggregate doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")
)
