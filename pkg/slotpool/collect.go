package slotpool

import (
	"context"
	"time"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// Collect is the history-preserving aggregation pool. It behaves like
// Split except that a released slot's payload is moved into a backing
// store instead of discarded, so contributions from workers that have
// already exited are still returned by Gather.
//
// At any instant, the union of live slot payloads and the backing store
// is exactly everything contributed and not yet drained.
//
// The zero value is not usable; construct with NewCollect.
type Collect[T any] struct {
	list  slotList[T]
	store []T // payloads of released slots, emptied by Gather and Reset
	cfg   poolConfig
}

// NewCollect creates a history-preserving pool.
func NewCollect[T any](opts ...Option) *Collect[T] {
	return &Collect[T]{cfg: newPoolConfig("collect", opts)}
}

// Slot registers a new slot for the calling goroutine and returns it.
// This is the only blocking touch; subsequent payload access through the
// returned slot never locks. The payload starts at the zero value of T.
func (p *Collect[T]) Slot() *Slot[T] {
	s := &Slot[T]{}
	p.list.register(s, p)
	p.cfg.metrics.RecordSlotRegister(context.Background(), p.cfg.name)
	observability.LogSlotRegister(p.cfg.logger, p.cfg.name)
	return s
}

// Run registers a slot, invokes fn with the payload, and releases the
// slot when fn returns. The payload ends up in the backing store, so it
// is still visible to a later Gather.
func (p *Collect[T]) Run(fn func(*T)) {
	s := p.Slot()
	defer s.Release()
	fn(s.Value())
}

// releaseSlot implements slotOwner. The payload moves to the backing
// store before the slot is unlinked.
func (p *Collect[T]) releaseSlot(s *Slot[T]) {
	p.list.mu.Lock()
	if s.owner.Load() == nil {
		// Already revoked by a concurrent Release or Reset.
		p.list.mu.Unlock()
		return
	}
	p.store = append(p.store, s.value)
	p.list.detachLocked(s)
	p.list.mu.Unlock()
	p.cfg.metrics.RecordSlotRelease(context.Background(), p.cfg.name)
	observability.LogSlotRelease(p.cfg.logger, p.cfg.name)
}

// Gather drains the pool: every live slot's payload is moved out and the
// slot zero-valued in place, the backing store is merged in and emptied,
// and the combined values are returned. A second Gather with no
// intervening contributions returns an empty slice.
//
// Order mixes backing-store entries (oldest first) with live slots in
// reverse registration order; no stronger ordering is guaranteed.
func (p *Collect[T]) Gather() []T {
	start := time.Now()
	p.list.mu.Lock()
	out := p.store
	p.store = nil
	out = p.list.drainLocked(out)
	p.list.mu.Unlock()

	p.cfg.metrics.RecordGather(context.Background(), p.cfg.name, len(out), time.Since(start))
	observability.LogGather(p.cfg.logger, p.cfg.name, len(out))
	return out
}

// GatherFlattened drains a pool whose payloads are slices, moving the
// elements of every per-worker slice and every backing-store slice into
// dst. Per-worker slices are truncated to length zero with capacity kept,
// so workers keep appending into warm storage instead of reallocating.
func GatherFlattened[E any](p *Collect[[]E], dst []E) []E {
	start := time.Now()
	p.list.mu.Lock()
	for s := p.list.head; s != nil; s = s.next {
		dst = append(dst, s.value...)
		s.value = s.value[:0]
	}
	for _, vs := range p.store {
		dst = append(dst, vs...)
	}
	p.store = nil
	p.list.mu.Unlock()

	p.cfg.metrics.RecordGather(context.Background(), p.cfg.name, len(dst), time.Since(start))
	observability.LogGather(p.cfg.logger, p.cfg.name, len(dst))
	return dst
}

// ForEach applies fn to every live slot's payload and every backing-store
// entry under the exclusive lock. fn may mutate.
func (p *Collect[T]) ForEach(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.mu.Lock()
	defer p.list.mu.Unlock()
	for s := p.list.head; s != nil; s = s.next {
		fn(&s.value)
	}
	for i := range p.store {
		fn(&p.store[i])
	}
}

// ForEachRead applies fn to every live slot's payload and every
// backing-store entry under the shared lock. fn must not mutate.
func (p *Collect[T]) ForEachRead(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.mu.RLock()
	defer p.list.mu.RUnlock()
	for s := p.list.head; s != nil; s = s.next {
		fn(&s.value)
	}
	for i := range p.store {
		fn(&p.store[i])
	}
}

// Reset revokes every live slot and empties the backing store: a Gather
// after Reset always returns nothing. Outstanding Slot handles become
// inert (Release is a no-op, the payload is orphaned, nothing reaches
// the store). A goroutine that wants to contribute again calls Slot for
// a fresh default-valued slot, so state from before the reset is never
// observed afterward.
func (p *Collect[T]) Reset() {
	p.list.mu.Lock()
	p.list.detachAllLocked()
	p.store = nil
	p.list.mu.Unlock()
	observability.LogReset(p.cfg.logger, p.cfg.name)
}

// Len returns the number of live slots. Backing-store entries are not
// counted.
func (p *Collect[T]) Len() int {
	return p.list.lenSlots()
}
