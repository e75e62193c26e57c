// Package cache provides a tiny fixed-capacity key/value cache ordered
// by recency of use, intended to be private to a single goroutine
// (typically one instance per worker, stored in a slotpool slot).
//
// The cache is sized so that all keys and values together fit one CPU
// cache line. Lookup is a linear scan over at most a handful of entries;
// a miss computes the value, inserts it at the front and evicts the
// least-recently-inserted entry off the tail. There is no locking and no
// shared state: sharing an instance across goroutines is a caller bug.
package cache

import "unsafe"

// DefaultLineBytes is the storage budget used by New: one 64-byte cache
// line.
const DefaultLineBytes = 64

// Cache is a fixed-capacity, fully-associative key/value cache.
//
// empty is the sentinel marking a free entry; it must be a key value the
// caller never looks up, or GetOr will return the zero value for it
// without calling the compute function.
type Cache[K comparable, V any] struct {
	empty K
	keys  []K
	vals  []V
}

// New creates a cache whose keys and values fit DefaultLineBytes.
func New[K comparable, V any](empty K) *Cache[K, V] {
	return NewSized[K, V](empty, DefaultLineBytes)
}

// NewSized creates a cache with a custom storage budget in bytes.
// Capacity is lineBytes divided by the combined size of one key and one
// value, and at least 1.
func NewSized[K comparable, V any](empty K, lineBytes int) *Cache[K, V] {
	var k K
	var v V
	per := int(unsafe.Sizeof(k) + unsafe.Sizeof(v))
	n := 1
	if per > 0 && lineBytes/per > 0 {
		n = lineBytes / per
	}
	c := &Cache[K, V]{
		empty: empty,
		keys:  make([]K, n),
		vals:  make([]V, n),
	}
	c.Reset()
	return c
}

// GetOr returns the cached value for k if present. Otherwise it calls
// fn(k), inserts the result at the front (evicting the tail entry if the
// cache is full), and returns it.
func (c *Cache[K, V]) GetOr(k K, fn func(K) V) V {
	for i, key := range c.keys {
		if key == k {
			return c.vals[i]
		}
	}

	v := fn(k)
	// Shift everything one step toward the tail; the last entry falls off.
	copy(c.keys[1:], c.keys)
	copy(c.vals[1:], c.vals)
	c.keys[0] = k
	c.vals[0] = v
	return v
}

// Reset empties the cache: every key becomes the empty sentinel and
// every value the zero value.
func (c *Cache[K, V]) Reset() {
	var zero V
	for i := range c.keys {
		c.keys[i] = c.empty
		c.vals[i] = zero
	}
}

// Cap returns the number of key/value pairs the cache can hold.
func (c *Cache[K, V]) Cap() int {
	return len(c.keys)
}
