package slotpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_DefaultValue(t *testing.T) {
	p := NewSplitter[string]()
	s := p.Slot()
	defer s.Release()

	assert.Equal(t, "", *s.Value())
}

func TestSplitter_ConcurrentSum(t *testing.T) {
	const workers = 8
	const perWorker = 10000

	p := NewSplitter[int]()

	var started sync.WaitGroup
	release := make(chan struct{})
	var done sync.WaitGroup

	for i := 0; i < workers; i++ {
		started.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()
			s := p.Slot()
			defer s.Release()

			v := s.Value()
			for j := 0; j < perWorker; j++ {
				*v++
			}
			started.Done()
			<-release
		}()
	}

	started.Wait()
	sum := 0
	for _, v := range p.Gather() {
		sum += v
	}
	assert.Equal(t, workers*perWorker, sum)

	close(release)
	done.Wait()
}

func TestSplitter_ValuesSnapshot(t *testing.T) {
	p := NewSplitter[int]()

	s1 := p.Slot()
	defer s1.Release()
	*s1.Value() = 1
	s2 := p.Slot()
	defer s2.Release()
	*s2.Value() = 2

	// View order is reverse registration order.
	assert.Equal(t, []int{2, 1}, p.Values())

	// Values does not disturb the slots.
	assert.Equal(t, 1, *s1.Value())
	assert.Equal(t, 2, *s2.Value())
}

func TestSplitter_GatherDrains(t *testing.T) {
	p := NewSplitter[int]()

	s := p.Slot()
	defer s.Release()
	*s.Value() = 3

	assert.Equal(t, []int{3}, p.Gather())
	assert.Equal(t, 0, *s.Value())

	// Slot stays registered; the next gather sees its (zero) payload.
	assert.Equal(t, []int{0}, p.Gather())
}

func TestSplitter_Sort(t *testing.T) {
	p := NewSplitter[int]()

	values := []int{5, 1, 4, 2, 3}
	slots := make([]*Slot[int], len(values))
	for i, v := range values {
		slots[i] = p.Slot()
		*slots[i].Value() = v
	}
	defer func() {
		for _, s := range slots {
			s.Release()
		}
	}()

	p.Sort(func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Values())

	// Descending comparator too.
	p.Sort(func(a, b int) bool { return a > b })
	assert.Equal(t, []int{5, 4, 3, 2, 1}, p.Values())
}

func TestSplitter_SortOrdered(t *testing.T) {
	p := NewSplitter[float64]()

	var slots []*Slot[float64]
	for _, v := range []float64{2.5, 0.5, 1.5} {
		s := p.Slot()
		*s.Value() = v
		slots = append(slots, s)
	}
	defer func() {
		for _, s := range slots {
			s.Release()
		}
	}()

	SortOrdered(p)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, p.Values())
}

func TestSplitter_ReleaseDiscards(t *testing.T) {
	p := NewSplitter[int]()
	p.Run(func(v *int) { *v = 9 })

	assert.Empty(t, p.Values())
	assert.Equal(t, 0, p.Len())
}

func TestSplitter_Reset(t *testing.T) {
	p := NewSplitter[int]()
	s := p.Slot()
	*s.Value() = 8

	p.Reset()
	assert.Empty(t, p.Gather())
	assert.Equal(t, 0, p.Len())

	s.Release() // inert
	assert.Equal(t, 0, p.Len())
}

func TestSplitter_NilComparatorPanics(t *testing.T) {
	p := NewSplitter[int]()
	require.Panics(t, func() { p.Sort(nil) })
}
