package slotpool

import "sync"

// slotList is the structural core shared by the aggregation pools: an
// intrusive singly-linked list of live slots guarded by one RWMutex.
//
// The exclusive lock guards structural changes (register, unregister,
// drain, reset) and mutating traversal. Read-only traversal takes the
// shared lock so concurrent readers do not serialize against each other.
// Enumeration order is reverse registration order; callers must not rely
// on anything stronger.
type slotList[T any] struct {
	mu   sync.RWMutex
	head *Slot[T]
}

// register links s at the head of the list and installs its owner
// back-reference in the same critical section, so a registering slot is
// either fully visible to a concurrent drain or not at all.
func (l *slotList[T]) register(s *Slot[T], owner slotOwner[T]) {
	l.mu.Lock()
	s.owner.Store(&owner)
	s.next = l.head
	l.head = s
	l.mu.Unlock()
}

// unregisterLocked unlinks s by linear scan from the head. No-op if s is
// not in the list. Caller holds mu exclusively.
func (l *slotList[T]) unregisterLocked(s *Slot[T]) {
	if l.head == s {
		l.head = s.next
		return
	}
	for curr := l.head; curr != nil; curr = curr.next {
		if curr.next == s {
			curr.next = s.next
			return
		}
	}
}

// detachLocked revokes s's membership: unlink and clear the
// back-reference. The payload is left alone; it belongs to the owning
// goroutine, which may still be reading it. Caller holds mu exclusively.
func (l *slotList[T]) detachLocked(s *Slot[T]) {
	l.unregisterLocked(s)
	s.owner.Store(nil)
	s.next = nil
}

// detachAllLocked revokes every slot. Caller holds mu exclusively.
func (l *slotList[T]) detachAllLocked() {
	for s := l.head; s != nil; {
		next := s.next
		s.owner.Store(nil)
		s.next = nil
		s = next
	}
	l.head = nil
}

// forEachRead walks the list under the shared lock. fn must not mutate
// the payloads it is handed.
func (l *slotList[T]) forEachRead(fn func(*T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for s := l.head; s != nil; s = s.next {
		fn(&s.value)
	}
}

// forEachWrite walks the list under the exclusive lock; fn may mutate.
func (l *slotList[T]) forEachWrite(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for s := l.head; s != nil; s = s.next {
		fn(&s.value)
	}
}

// drainLocked appends every live payload to dst and zero-values each
// slot in place. Slots stay registered. Caller holds mu exclusively.
func (l *slotList[T]) drainLocked(dst []T) []T {
	var zero T
	for s := l.head; s != nil; s = s.next {
		dst = append(dst, s.value)
		s.value = zero
	}
	return dst
}

// lenSlots returns the number of live slots.
func (l *slotList[T]) lenSlots() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for s := l.head; s != nil; s = s.next {
		n++
	}
	return n
}
