package snapshot

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]storedAggregate // snapshotID -> pool -> aggregate
	closed bool
}

// storedAggregate holds aggregate data with metadata for List().
type storedAggregate struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]storedAggregate),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(snapshotID, pool string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[snapshotID] == nil {
		m.data[snapshotID] = make(map[string]storedAggregate)
	}

	// Determine sequence number
	seq := 1
	for _, agg := range m.data[snapshotID] {
		if agg.sequence >= seq {
			seq = agg.sequence + 1
		}
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.data[snapshotID][pool] = storedAggregate{
		data:      stored,
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}

	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(snapshotID, pool string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	snap, ok := m.data[snapshotID]
	if !ok {
		return nil, ErrNotFound
	}

	agg, ok := snap[pool]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy so callers can't mutate stored data
	out := make([]byte, len(agg.data))
	copy(out, agg.data)
	return out, nil
}

// List implements Store.
func (m *MemoryStore) List(snapshotID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	snap := m.data[snapshotID]
	infos := make([]Info, 0, len(snap))
	for pool, agg := range snap {
		infos = append(infos, Info{
			SnapshotID: snapshotID,
			Pool:       pool,
			Sequence:   agg.sequence,
			Timestamp:  agg.timestamp,
			Size:       int64(len(agg.data)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Sequence < infos[j].Sequence
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(snapshotID, pool string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if snap, ok := m.data[snapshotID]; ok {
		delete(snap, pool)
		if len(snap) == 0 {
			delete(m.data, snapshotID)
		}
	}
	return nil
}

// DeleteSnapshot implements Store.
func (m *MemoryStore) DeleteSnapshot(snapshotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, snapshotID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
