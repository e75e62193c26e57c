package benchmarks

import (
	"testing"

	"github.com/randalmurphal/slotpool/pkg/slotpool/cache"
)

// BenchmarkCache_Hit measures a lookup that finds its key resident.
func BenchmarkCache_Hit(b *testing.B) {
	c := cache.New[int, int](-1)
	square := func(k int) int { return k * k }
	c.GetOr(7, square)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOr(7, square)
	}
}

// BenchmarkCache_Miss measures a lookup that always evicts: the key
// cycles through more values than the cache holds.
func BenchmarkCache_Miss(b *testing.B) {
	c := cache.New[int, int](-1)
	square := func(k int) int { return k * k }
	span := 4 * c.Cap()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOr(i%span, square)
	}
}

// BenchmarkCache_WorkingSet measures the intended usage: a small hot
// set that fits entirely in the cache.
func BenchmarkCache_WorkingSet(b *testing.B) {
	c := cache.New[int, int](-1)
	square := func(k int) int { return k * k }
	n := c.Cap()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOr(i%n, square)
	}
}
