package interval

import "math"

// SweepEpsilon decides which pointer advances when two spans end at
// (almost) the same time.
const SweepEpsilon = 1e-9

// TotalDuration sums the length of every interval, clamped at zero each.
func TotalDuration(s Set) float64 {
	total := 0.0
	for _, iv := range s.items {
		total += iv.Duration()
	}
	return total
}

// Overlap returns the total time covered by both a and b.
func Overlap(a, b Set) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}
	var (
		i, j    int
		overlap float64
	)
	for i < len(a.items) && j < len(b.items) {
		x, y := a.items[i], b.items[j]
		lo := math.Max(x.Start, y.Start)
		hi := math.Min(x.End, y.End)
		if hi > lo {
			overlap += hi - lo
		}
		if x.End < y.End-SweepEpsilon {
			i++
		} else {
			j++
		}
	}
	return overlap
}
