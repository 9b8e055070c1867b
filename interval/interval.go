// Package interval holds canonical speaker time spans and the duration and
// overlap arithmetic over them.
package interval

import (
	"math"
	"sort"
)

// DefaultMergeEpsilon is the gap, in seconds, under which two spans are
// treated as adjacent and merged.
const DefaultMergeEpsilon = 1e-6

// Interval is a span [Start, End) in seconds.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Duration returns End-Start, never negative.
func (iv Interval) Duration() float64 { return math.Max(0, iv.End-iv.Start) }

func (iv Interval) valid() bool {
	if math.IsNaN(iv.Start) || math.IsNaN(iv.End) || math.IsInf(iv.Start, 0) || math.IsInf(iv.End, 0) {
		return false
	}
	return iv.End > iv.Start
}

// Set is a sorted, merged, non-overlapping sequence of intervals.
// The zero value is the empty set. A Set is never modified after it is built.
type Set struct {
	items []Interval
}

// Normalize builds a Set using DefaultMergeEpsilon.
func Normalize(raw []Interval) Set { return NormalizeEpsilon(raw, DefaultMergeEpsilon) }

// NormalizeEpsilon drops degenerate pairs (End <= Start, non-finite), sorts the
// rest by (Start, End) and merges every pair that starts within eps of the
// running end.
func NormalizeEpsilon(raw []Interval, eps float64) Set {
	kept := make([]Interval, 0, len(raw))
	for _, iv := range raw {
		if iv.valid() {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		return Set{}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].End < kept[j].End
	})

	merged := make([]Interval, 0, len(kept))
	cur := kept[0]
	for _, iv := range kept[1:] {
		if iv.Start <= cur.End+eps {
			cur.End = math.Max(cur.End, iv.End)
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	merged = append(merged, cur)
	return Set{items: merged}
}

// Union merges several sets into one canonical Set.
func Union(eps float64, sets ...Set) Set {
	n := 0
	for _, s := range sets {
		n += len(s.items)
	}
	all := make([]Interval, 0, n)
	for _, s := range sets {
		all = append(all, s.items...)
	}
	return NormalizeEpsilon(all, eps)
}

// Len reports the number of intervals.
func (s Set) Len() int { return len(s.items) }

// Empty reports whether the set has no intervals.
func (s Set) Empty() bool { return len(s.items) == 0 }

// At returns the i-th interval.
func (s Set) At(i int) Interval { return s.items[i] }

// Intervals returns a copy of the intervals.
func (s Set) Intervals() []Interval {
	out := make([]Interval, len(s.items))
	copy(out, s.items)
	return out
}

// Duration is shorthand for TotalDuration(s).
func (s Set) Duration() float64 { return TotalDuration(s) }
