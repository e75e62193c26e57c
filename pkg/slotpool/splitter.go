package slotpool

import (
	"cmp"
	"context"
	"sort"
	"time"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// Splitter is the iterable aggregation pool: like Split, released
// payloads are discarded, but live contributions stay reachable as an
// ordered view that can be snapshotted, drained and sorted.
//
// The zero value is not usable; construct with NewSplitter.
type Splitter[T any] struct {
	list slotList[T]
	cfg  poolConfig
}

// NewSplitter creates an iterable/sortable pool.
func NewSplitter[T any](opts ...Option) *Splitter[T] {
	return &Splitter[T]{cfg: newPoolConfig("splitter", opts)}
}

// Slot registers a new slot for the calling goroutine and returns it.
// This is the only blocking touch; subsequent payload access through the
// returned slot never locks. The payload starts at the zero value of T.
func (p *Splitter[T]) Slot() *Slot[T] {
	s := &Slot[T]{}
	p.list.register(s, p)
	p.cfg.metrics.RecordSlotRegister(context.Background(), p.cfg.name)
	observability.LogSlotRegister(p.cfg.logger, p.cfg.name)
	return s
}

// Run registers a slot, invokes fn with the payload, and releases the
// slot when fn returns. The payload is discarded on release; drain the
// pool before workers finish if the contributions matter.
func (p *Splitter[T]) Run(fn func(*T)) {
	s := p.Slot()
	defer s.Release()
	fn(s.Value())
}

// releaseSlot implements slotOwner. The payload is discarded.
func (p *Splitter[T]) releaseSlot(s *Slot[T]) {
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

// Gather drains every live slot's payload into a slice, zero-valuing the
// slots in place, and returns the contributions in view order.
func (p *Splitter[T]) Gather() []T {
	start := time.Now()
	p.list.mu.Lock()
	out := p.list.drainLocked(nil)
	p.list.mu.Unlock()

	p.cfg.metrics.RecordGather(context.Background(), p.cfg.name, len(out), time.Since(start))
	observability.LogGather(p.cfg.logger, p.cfg.name, len(out))
	return out
}

// Values returns a copy of every live slot's payload in view order,
// without disturbing the slots.
func (p *Splitter[T]) Values() []T {
	p.list.mu.RLock()
	defer p.list.mu.RUnlock()
	var out []T
	for s := p.list.head; s != nil; s = s.next {
		out = append(out, s.value)
	}
	return out
}

// Sort reorders the live-slot view using less, which must be a strict
// weak ordering over payloads. Subsequent Values, Gather, ForEach and
// ForEachRead calls observe the sorted order until registration or
// release disturbs it (new slots are inserted at the front).
func (p *Splitter[T]) Sort(less func(a, b T) bool) {
	if less == nil {
		panic("slotpool: nil comparator")
	}
	p.list.mu.Lock()
	defer p.list.mu.Unlock()

	var slots []*Slot[T]
	for s := p.list.head; s != nil; s = s.next {
		slots = append(slots, s)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return less(slots[i].value, slots[j].value)
	})

	// Relink the list in sorted order.
	var head *Slot[T]
	for i := len(slots) - 1; i >= 0; i-- {
		slots[i].next = head
		head = slots[i]
	}
	p.list.head = head
}

// SortOrdered sorts a splitter of ordered payloads ascending. It is the
// default-comparator convenience over Sort.
func SortOrdered[T cmp.Ordered](p *Splitter[T]) {
	p.Sort(func(a, b T) bool { return cmp.Less(a, b) })
}

// ForEach applies fn to every live slot's payload in view order under
// the exclusive lock. fn may mutate.
func (p *Splitter[T]) ForEach(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.forEachWrite(fn)
}

// ForEachRead applies fn to every live slot's payload in view order
// under the shared lock. fn must not mutate.
func (p *Splitter[T]) ForEachRead(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	p.list.forEachRead(fn)
}

// Reset revokes every live slot; the view empties and outstanding Slot
// handles become inert. A Gather or Values after Reset returns nothing.
func (p *Splitter[T]) Reset() {
	p.list.mu.Lock()
	p.list.detachAllLocked()
	p.list.mu.Unlock()
	observability.LogReset(p.cfg.logger, p.cfg.name)
}

// Len returns the number of live slots.
func (p *Splitter[T]) Len() int {
	return p.list.lenSlots()
}
