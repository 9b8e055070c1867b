// Package assignment finds the better of the two label mappings between two
// test speakers and two reference speakers.
//
// With two speakers per side there are exactly two bijections, so the search
// is a direct comparison. More speakers would need a maximum-weight bipartite
// matching over an F1 score matrix with the same tie discipline.
package assignment

import (
	"math"

	"github.com/maastricht-university/edmo-diareval/interval"
	"github.com/maastricht-university/edmo-diareval/metrics"
)

// DefaultTieEpsilon is the macro-F1 difference up to which two candidates
// are considered tied. Zero still ties exactly equal scores.
const DefaultTieEpsilon = 1e-9

// Fixed labels of both sides.
const (
	Test0 = "0"
	Test1 = "1"
	RefA  = "A"
	RefB  = "B"
)

// Result is the winning mapping with its per-speaker scores.
type Result struct {
	// Mapping sends each test label to RefA or RefB.
	Mapping map[string]string `json:"mapping" yaml:"mapping"`
	// Speakers holds the metrics of each test label against its mapped reference.
	Speakers map[string]metrics.Metrics `json:"speakers" yaml:"speakers"`
	// MacroF1 is the mean F1 of both test labels.
	MacroF1 float64 `json:"macro_f1" yaml:"macro_f1"`
	// TotalOverlap is the summed overlap in seconds of both pairs.
	TotalOverlap float64 `json:"total_overlap" yaml:"total_overlap"`
	// Swapped is true when test 0 maps to RefB.
	Swapped bool `json:"swapped" yaml:"swapped"`
}

type options struct {
	tieEpsilon float64
}

// Option configures Best.
type Option func(*options)

// WithTieEpsilon sets the macro-F1 tie threshold.
func WithTieEpsilon(eps float64) Option {
	return func(o *options) { o.tieEpsilon = eps }
}

// Best scores (0->A, 1->B) and (0->B, 1->A) and returns the one with the
// higher macro-F1. On a macro-F1 tie the larger total overlap wins; on a full
// tie the direct mapping (0->A, 1->B) is kept.
func Best(test0, test1, refA, refB interval.Set, opts ...Option) Result {
	o := options{tieEpsilon: DefaultTieEpsilon}
	for _, opt := range opts {
		opt(&o)
	}

	direct := candidate(test0, test1, refA, refB, false)
	swapped := candidate(test0, test1, refB, refA, true)

	if prefer(swapped, direct, o.tieEpsilon) {
		return swapped
	}
	return direct
}

func candidate(test0, test1, ref0, ref1 interval.Set, swapped bool) Result {
	m0 := metrics.Score(test0, ref0)
	m1 := metrics.Score(test1, ref1)
	mapping := map[string]string{Test0: RefA, Test1: RefB}
	if swapped {
		mapping = map[string]string{Test0: RefB, Test1: RefA}
	}
	return Result{
		Mapping:      mapping,
		Speakers:     map[string]metrics.Metrics{Test0: m0, Test1: m1},
		MacroF1:      (m0.F1 + m1.F1) / 2,
		TotalOverlap: m0.Overlap + m1.Overlap,
		Swapped:      swapped,
	}
}

// prefer reports whether challenger beats incumbent.
func prefer(challenger, incumbent Result, eps float64) bool {
	diff := challenger.MacroF1 - incumbent.MacroF1
	if math.Abs(diff) <= eps {
		return challenger.TotalOverlap > incumbent.TotalOverlap
	}
	return diff > 0
}
