// Package freerange hands out contiguous ranges of integer indices into a flat backing store
// and keeps track of the holes left behind by freed ranges so they can be handed out again.
//
// An Allocator is not safe for concurrent use.
package freerange

import (
	"slices"
	"sort"

	"github.com/samber/lo"
)

// Invalid is returned by Grab when no range could be reserved.
const Invalid = -1

// Range is a contiguous run of indices [Start, Start+Count).
type Range struct {
	Start int
	Count int
}

// End returns one past the last index of the range.
func (r Range) End() int {
	return r.Start + r.Count
}

// Allocator reserves index ranges below a high-water mark. Freed ranges become holes, bucketed
// by their size. Holes are never merged with their neighbors and the high-water mark never
// shrinks, so a freed range stays addressable for reuse at exactly the same start.
//
// The zero value is an empty allocator ready for use.
type Allocator struct {
	highWater int
	inUse     int

	// holes maps a hole size to the starts of every hole of that size, most recently freed last.
	holes map[int][]int
	// sizes lists the keys of holes in ascending order.
	sizes []int
}

// New returns an empty allocator.
func New() *Allocator {
	return &Allocator{}
}

// Grab reserves count contiguous indices and returns the first of them. A count of zero or
// less reserves nothing and returns Invalid.
//
// A hole of exactly count indices is preferred, the most recently freed one first. Failing
// that, the smallest larger hole is split and its tail goes back into the pool. Only when no
// hole is large enough does the high-water mark grow.
func (a *Allocator) Grab(count int) int {
	if count <= 0 {
		return Invalid
	}

	start, ok := a.takeHole(count)
	if !ok {
		start = a.highWater
		a.highWater += count
	}
	a.inUse += count
	return start
}

// Free returns [start, start+count) to the pool. The range must have come from Grab (or be a
// tail or split of one) and must not already be free; neither condition is checked.
func (a *Allocator) Free(start, count int) {
	if count <= 0 || start < 0 {
		return
	}
	a.pushHole(start, count)
	a.inUse -= count
}

// Size returns the number of indices currently granted and not yet freed.
func (a *Allocator) Size() int {
	return a.inUse
}

// HighWater returns one past the highest index ever granted.
func (a *Allocator) HighWater() int {
	return a.highWater
}

// NumHoles returns how many free ranges are waiting for reuse.
func (a *Allocator) NumHoles() int {
	return lo.SumBy(a.sizes, func(size int) int { return len(a.holes[size]) })
}

// HoleExtent returns the total number of indices sitting in holes.
func (a *Allocator) HoleExtent() int {
	return lo.SumBy(a.sizes, func(size int) int { return size * len(a.holes[size]) })
}

// Holes returns every free range ordered by start.
func (a *Allocator) Holes() []Range {
	holes := lo.FlatMap(a.sizes, func(size int, _ int) []Range {
		return lo.Map(a.holes[size], func(start int, _ int) Range {
			return Range{Start: start, Count: size}
		})
	})
	sort.Slice(holes, func(i, j int) bool { return holes[i].Start < holes[j].Start })
	return holes
}

// Clone returns an allocator with the same grants and holes that shares no state with a.
func (a *Allocator) Clone() *Allocator {
	return &Allocator{
		highWater: a.highWater,
		inUse:     a.inUse,
		holes:     lo.MapValues(a.holes, func(starts []int, _ int) []int { return slices.Clone(starts) }),
		sizes:     slices.Clone(a.sizes),
	}
}

// Reset forgets every grant and hole.
func (a *Allocator) Reset() {
	*a = Allocator{}
}

func (a *Allocator) takeHole(count int) (int, bool) {
	i := sort.SearchInts(a.sizes, count)
	if i == len(a.sizes) {
		return Invalid, false
	}
	size := a.sizes[i]

	bucket := a.holes[size]
	start := bucket[len(bucket)-1]
	if len(bucket) == 1 {
		delete(a.holes, size)
		a.sizes = slices.Delete(a.sizes, i, i+1)
	} else {
		a.holes[size] = bucket[:len(bucket)-1]
	}

	if size > count {
		a.pushHole(start+count, size-count)
	}
	return start, true
}

func (a *Allocator) pushHole(start, count int) {
	if a.holes == nil {
		a.holes = make(map[int][]int)
	}
	bucket, ok := a.holes[count]
	if !ok {
		i := sort.SearchInts(a.sizes, count)
		a.sizes = slices.Insert(a.sizes, i, count)
	}
	a.holes[count] = append(bucket, start)
}
