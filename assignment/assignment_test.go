package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maastricht-university/edmo-diareval/interval"
)

func set(pairs ...[2]float64) interval.Set {
	raw := make([]interval.Interval, 0, len(pairs))
	for _, p := range pairs {
		raw = append(raw, interval.Interval{Start: p[0], End: p[1]})
	}
	return interval.Normalize(raw)
}

func TestBest_Direct(t *testing.T) {
	refA := set([2]float64{0, 10}, [2]float64{20, 30})
	refB := set([2]float64{10, 20})
	test0 := set([2]float64{0, 9}, [2]float64{21, 30})
	test1 := set([2]float64{9, 21})

	r := Best(test0, test1, refA, refB)
	assert.False(t, r.Swapped)
	assert.Equal(t, map[string]string{Test0: RefA, Test1: RefB}, r.Mapping)
	assert.InDelta(t, 18.0, r.Speakers[Test0].Overlap, 1e-12)
	assert.InDelta(t, 10.0, r.Speakers[Test1].Overlap, 1e-12)
	assert.InDelta(t, 28.0, r.TotalOverlap, 1e-12)
	assert.InDelta(t, (r.Speakers[Test0].F1+r.Speakers[Test1].F1)/2, r.MacroF1, 1e-12)
}

func TestBest_Swapped(t *testing.T) {
	refA := set([2]float64{10, 20})
	refB := set([2]float64{0, 10})
	test0 := set([2]float64{0, 10})
	test1 := set([2]float64{10, 20})

	r := Best(test0, test1, refA, refB)
	assert.True(t, r.Swapped)
	assert.Equal(t, map[string]string{Test0: RefB, Test1: RefA}, r.Mapping)
	assert.InDelta(t, 1.0, r.MacroF1, 1e-12)
	assert.InDelta(t, 1.0, r.Speakers[Test0].F1, 1e-12)
}

func TestBest_ReferenceRelabelingSymmetry(t *testing.T) {
	refA := set([2]float64{0, 6}, [2]float64{15, 18})
	refB := set([2]float64{6, 15})
	test0 := set([2]float64{0, 5}, [2]float64{14, 18})
	test1 := set([2]float64{5, 14})

	r1 := Best(test0, test1, refA, refB)
	r2 := Best(test0, test1, refB, refA)

	assert.InDelta(t, r1.MacroF1, r2.MacroF1, 1e-12)
	assert.InDelta(t, r1.TotalOverlap, r2.TotalOverlap, 1e-12)
	assert.NotEqual(t, r1.Swapped, r2.Swapped)
	flip := map[string]string{RefA: RefB, RefB: RefA}
	for label, ref := range r1.Mapping {
		assert.Equal(t, flip[ref], r2.Mapping[label])
	}
	assert.Equal(t, r1.Speakers, r2.Speakers)
}

func TestBest_FullTieKeepsDirect(t *testing.T) {
	// Every pairing scores the same: both test speakers and both references
	// are identical.
	ref := set([2]float64{0, 4})
	test := set([2]float64{1, 3})
	for i := 0; i < 10; i++ {
		r := Best(test, test, ref, ref)
		assert.False(t, r.Swapped)
		assert.Equal(t, RefA, r.Mapping[Test0])
		assert.Equal(t, RefB, r.Mapping[Test1])
	}

	empty := Best(interval.Set{}, interval.Set{}, interval.Set{}, interval.Set{})
	assert.False(t, empty.Swapped)
	assert.Zero(t, empty.MacroF1)
}

func TestBest_F1TieBrokenByOverlap(t *testing.T) {
	// test0 equals refB exactly (F1 1) and misses refA; test1 is empty.
	// Direct: F1 0 + 0 -> macro 0, overlap 0.
	// Swapped: test0->B F1 1, test1->A 0 -> macro 0.5. Swapped wins on F1.
	refA := set([2]float64{0, 2})
	refB := set([2]float64{5, 7})
	r := Best(set([2]float64{5, 7}), interval.Set{}, refA, refB)
	assert.True(t, r.Swapped)

	// A coarse tie epsilon turns the F1 gap into a tie; swapped still has
	// more overlap and keeps winning.
	r = Best(set([2]float64{5, 7}), interval.Set{}, refA, refB, WithTieEpsilon(1))
	assert.True(t, r.Swapped)

	// With equal overlap a tie falls back to the direct mapping.
	r = Best(set([2]float64{0, 1}, [2]float64{5, 6}), interval.Set{}, refA, refB, WithTieEpsilon(1))
	assert.False(t, r.Swapped)
}

func TestBest_ExactTieWithZeroEpsilon(t *testing.T) {
	// Both mappings score macro-F1 1/3; swapped overlaps 2s against 1s.
	test0 := set([2]float64{0, 2})
	refA := set([2]float64{0, 1})
	refB := set([2]float64{0, 4})

	for _, opts := range [][]Option{nil, {WithTieEpsilon(0)}} {
		r := Best(test0, interval.Set{}, refA, refB, opts...)
		assert.True(t, r.Swapped)
		assert.InDelta(t, 2.0, r.TotalOverlap, 1e-12)
		assert.InDelta(t, 1.0/3, r.MacroF1, 1e-12)
	}
}
