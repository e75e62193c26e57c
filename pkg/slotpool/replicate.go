package slotpool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/slotpool/pkg/slotpool/observability"
)

// Replicate broadcasts one master value from a single writer to many
// reader goroutines, each holding a private cached copy. A write marks
// every registered reader stale; each reader refreshes its copy lazily on
// its next access, under a shared lock. Between writes, reads cost one
// atomic load and no locking, which makes Replicate efficient for
// write-rarely/read-often values such as hot-reloaded configuration or
// shared coefficients in parallel kernels.
//
// Writers fully serialize with each other, with reader registration and
// with in-flight refreshes, but never with readers whose copies are
// fresh. Writes to one pool are totally ordered; a refresh observes the
// most recent write that completed before it.
//
// The zero value is not usable; construct with NewReplicate.
type Replicate[T any] struct {
	mu     sync.RWMutex // guards master and the reader list
	master T
	head   *Reader[T]
	cfg    poolConfig
}

// Reader is one goroutine's cached copy of a replicated value. It must
// only be used by the goroutine that obtained it from Replicate.Reader.
type Reader[T any] struct {
	cache T
	next  *Reader[T]

	// stale is set by writers under the exclusive lock but read by the
	// owning goroutine with no lock at all, hence the atomic.
	stale atomic.Bool

	// owner is cleared under the pool lock by Release and Reset but
	// read lock-free on the refresh path.
	owner atomic.Pointer[Replicate[T]]
}

// NewReplicate creates a replication pool holding initial as its master
// value.
func NewReplicate[T any](initial T, opts ...Option) *Replicate[T] {
	return &Replicate[T]{
		master: initial,
		cfg:    newPoolConfig("replicate", opts),
	}
}

// Reader registers the calling goroutine and returns its cached copy,
// initialized from the current master in the same critical section so a
// brand-new reader can never observe a staleness race. This is the only
// reader-side operation that always blocks.
//
// The caller must retain the reader and call Release when the goroutine
// is done. A goroutine that never calls Reader is invisible to writers
// and costs them nothing.
func (r *Replicate[T]) Reader() *Reader[T] {
	rd := &Reader[T]{}
	r.mu.Lock()
	rd.owner.Store(r)
	rd.cache = r.master
	rd.next = r.head
	r.head = rd
	r.mu.Unlock()

	r.cfg.metrics.RecordSlotRegister(context.Background(), r.cfg.name)
	observability.LogSlotRegister(r.cfg.logger, r.cfg.name)
	return rd
}

// Write replaces the master value and marks every registered reader
// stale. Cost is one exclusive lock acquisition plus O(readers); no
// write is ever lost or merged with another. A reader registered by the
// writing goroutine itself observes the write on its next Get.
func (r *Replicate[T]) Write(v T) {
	r.mu.Lock()
	r.master = v
	n := 0
	for rd := r.head; rd != nil; rd = rd.next {
		rd.stale.Store(true)
		n++
	}
	r.mu.Unlock()

	r.cfg.metrics.RecordWrite(context.Background(), r.cfg.name, n)
	observability.LogWrite(r.cfg.logger, r.cfg.name, n)
}

// Base returns the current master value without going through any
// reader's cache.
func (r *Replicate[T]) Base() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.master
}

// Readers returns the number of registered readers.
func (r *Replicate[T]) Readers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for rd := r.head; rd != nil; rd = rd.next {
		n++
	}
	return n
}

// Reset revokes every registered reader and zero-values the master.
// Outstanding readers become inert: they keep returning their last
// refreshed copy but are never updated again. Goroutines that want to
// follow the pool again call Reader for a fresh registration.
func (r *Replicate[T]) Reset() {
	r.mu.Lock()
	for rd := r.head; rd != nil; {
		next := rd.next
		rd.owner.Store(nil)
		rd.next = nil
		rd = next
	}
	r.head = nil
	var zero T
	r.master = zero
	r.mu.Unlock()
	observability.LogReset(r.cfg.logger, r.cfg.name)
}

// Get returns the reader's copy of the value, refreshing it from the
// master first if a write happened since the last access. The fresh path
// is one atomic load with no locking; the refresh path takes the shared
// lock briefly.
func (rd *Reader[T]) Get() T {
	rd.refresh()
	return rd.cache
}

// View passes the reader's (refreshed) copy to fn by pointer, avoiding a
// value copy. fn must not mutate or retain the pointed-to value.
func (rd *Reader[T]) View(fn func(*T)) {
	if fn == nil {
		panic("slotpool: nil visitor")
	}
	rd.refresh()
	fn(&rd.cache)
}

// refresh copies the master into the cache if the copy is stale.
func (rd *Reader[T]) refresh() {
	if !rd.stale.Load() {
		return
	}
	r := rd.owner.Load()
	if r == nil {
		return
	}
	r.mu.RLock()
	rd.cache = r.master
	rd.stale.Store(false)
	r.mu.RUnlock()

	r.cfg.metrics.RecordRefresh(context.Background(), r.cfg.name)
}

// Release unregisters the reader from its pool. Idempotent; releasing a
// reader the pool already revoked (via Reset) is a no-op.
func (rd *Reader[T]) Release() {
	r := rd.owner.Load()
	if r == nil {
		return
	}
	r.mu.Lock()
	if rd.owner.Load() == nil {
		// Revoked between the load above and taking the lock.
		r.mu.Unlock()
		return
	}
	if r.head == rd {
		r.head = rd.next
	} else {
		for curr := r.head; curr != nil; curr = curr.next {
			if curr.next == rd {
				curr.next = rd.next
				break
			}
		}
	}
	rd.owner.Store(nil)
	rd.next = nil
	r.mu.Unlock()

	r.cfg.metrics.RecordSlotRelease(context.Background(), r.cfg.name)
	observability.LogSlotRelease(r.cfg.logger, r.cfg.name)
}
