package slotpool

import "sync/atomic"

// slotOwner is the revocable back-reference from a slot to the pool that
// registered it. The pool clears it under its structural lock before
// unlinking the slot, so release and pool teardown can race in either
// order without ever dereferencing the other side twice.
type slotOwner[T any] interface {
	releaseSlot(s *Slot[T])
}

// Slot is one goroutine's private payload record within a pool.
//
// A Slot is returned by a pool's Slot method and must only be used by the
// goroutine that registered it. Value access never locks; Release is the
// only Slot operation that touches the pool.
type Slot[T any] struct {
	value T
	next  *Slot[T]

	// owner is read without the pool lock by Release and written under
	// it by registration, release and Reset, hence the atomic.
	owner atomic.Pointer[slotOwner[T]]
}

// Value returns a pointer to this slot's payload. The payload starts at
// the zero value of T. Only the registering goroutine may dereference
// it. Whole-pool operations (Gather, Reset, ForEach) touch payloads
// under the pool's lock but the per-goroutine path does not, so callers
// must quiesce workers before draining if torn reads matter.
func (s *Slot[T]) Value() *T {
	return &s.value
}

// Release detaches the slot from its pool. What happens to the payload
// depends on the pool kind: Split and Splitter discard it, Collect moves
// it into the backing store. Release is idempotent, and releasing a slot
// the pool already revoked (via Reset) is a no-op.
//
// Call Release when the owning goroutine is done with the pool, typically
// via defer right after obtaining the slot.
func (s *Slot[T]) Release() {
	if o := s.owner.Load(); o != nil {
		(*o).releaseSlot(s)
	}
}
