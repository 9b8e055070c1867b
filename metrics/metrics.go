// Package metrics scores a test interval set against a reference interval set
// by speaking time.
package metrics

import "github.com/maastricht-university/edmo-diareval/interval"

// Metrics holds duration-weighted agreement between a test and a reference set.
type Metrics struct {
	// Precision is the fraction of test time that is also reference time, in [0, 1].
	Precision float64 `json:"precision" yaml:"precision"`
	// Recall is the fraction of reference time covered by test time, in [0, 1].
	Recall float64 `json:"recall" yaml:"recall"`
	// F1 is the harmonic mean of precision and recall, in [0, 1].
	F1 float64 `json:"f1" yaml:"f1"`
	// IoU is overlap divided by the union of both sets, in [0, 1].
	IoU float64 `json:"iou" yaml:"iou"`
	// Overlap is the shared time in seconds.
	Overlap float64 `json:"overlap" yaml:"overlap"`
	// TestDuration is the total test time in seconds.
	TestDuration float64 `json:"test_duration" yaml:"test_duration"`
	// ReferenceDuration is the total reference time in seconds.
	ReferenceDuration float64 `json:"reference_duration" yaml:"reference_duration"`
}

// Score compares test against ref. Empty inputs score zero, not an error.
func Score(test, ref interval.Set) Metrics {
	return FromDurations(
		interval.TotalDuration(test),
		interval.TotalDuration(ref),
		interval.Overlap(test, ref),
	)
}

// FromDurations derives the ratios from already measured durations.
func FromDurations(testDur, refDur, overlap float64) Metrics {
	m := Metrics{
		Overlap:           overlap,
		TestDuration:      testDur,
		ReferenceDuration: refDur,
	}
	m.Precision = ratio(overlap, testDur)
	m.Recall = ratio(overlap, refDur)
	m.F1 = fMeasure(m.Precision, m.Recall)
	m.IoU = ratio(overlap, testDur+refDur-overlap)
	return m
}

func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// fMeasure computes the harmonic mean of precision and recall.
func fMeasure(precision, recall float64) float64 {
	if precision+recall > 0 {
		return 2 * precision * recall / (precision + recall)
	}
	return 0
}
