package slotpool

import (
	"context"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// Split is the ephemeral aggregation pool: each worker goroutine gets a
// private payload slot, and the payload is discarded when the slot is
// released. Use it for per-worker scratch state that has no meaning after
// the worker is gone (counters folded before release, reusable buffers,
// per-worker RNGs).
//
// The zero value is not usable; construct with NewSplit.
type Split[T any] struct {
	list slotList[T]
	cfg  poolConfig
}

// NewSplit creates an ephemeral pool.
func NewSplit[T any](opts ...Option) *Split[T] {
	return &Split[T]{cfg: newPoolConfig("split", opts)}
}

// Slot registers a new slot for the calling goroutine and returns it.
// This is the only blocking touch; subsequent payload access through the
// returned slot never locks. The payload starts at the zero value of T.
//
// The caller must retain the slot and call Release when the goroutine is
// done with the pool. Each call registers a fresh slot, so call it once
// per goroutine.
func (p *Split[T]) Slot() *Slot[T] {
	s := &Slot[T]{}
	p.list.register(s, p)
	p.cfg.metrics.RecordSlotRegister(context.Background(), p.cfg.name)
	observability.LogSlotRegister(p.cfg.logger, p.cfg.name)
	return s
}

// Run registers a slot, invokes fn with the payload, and releases the
// slot when fn returns. It is the idiomatic shape for worker goroutines:
//
//	go func() {
//	    pool.Run(func(v *T) { ... })
//	}()
func (p *Split[T]) Run(fn func(*T)) {
	s := p.Slot()
	defer s.Release()
	fn(s.Value())
}

// releaseSlot implements slotOwner. The payload is discarded.
func (p *Split[T]) releaseSlot(s *Slot[T]) {
	p.list.mu.Lock()
	if s.owner.Load() == nil {
		// Already revoked by a concurrent Release or Reset.
		p.list.mu.Unlock()
		return
	}
	p.list.detachLocked(s)
	p.list.mu.Unlock()
	p.cfg.metrics.RecordSlotRelease(context.Background(), p.cfg.name)
	observability.LogSlotRelease(p.cfg.logger, p.cfg.name)
}

// ForEach applies fn to every live slot's payload under the exclusive
// lock. fn may mutate the payloads. Concurrent ForEach, Gather and Reset
// calls serialize; a worker's first Slot call either is or is not yet
// visible to the walk.
func (p *Split[T]) ForEach(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.forEachWrite(fn)
}

// ForEachRead applies fn to every live slot's payload under the shared
// lock, so concurrent read-only walks do not serialize against each
// other. fn must not mutate the payloads.
func (p *Split[T]) ForEachRead(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.forEachRead(fn)
}

// Reset revokes every live slot: the list empties and each outstanding
// Slot handle becomes inert (its Release turns into a no-op, its Value
// keeps pointing at now-orphaned private memory). A goroutine that wants
// to contribute again calls Slot for a fresh default-valued slot. A
// ForEach after Reset visits nothing.
func (p *Split[T]) Reset() {
	p.list.mu.Lock()
	p.list.detachAllLocked()
	p.list.mu.Unlock()
	observability.LogReset(p.cfg.logger, p.cfg.name)
}

// Len returns the number of live slots.
func (p *Split[T]) Len() int {
	return p.list.lenSlots()
}
