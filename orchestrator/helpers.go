package orchestrator

import (
	"fmt"

	"github.com/maastricht-university/edmo-diareval/assignment"
	"github.com/maastricht-university/edmo-diareval/interval"
	"github.com/maastricht-university/edmo-diareval/metrics"
	"github.com/maastricht-university/edmo-diareval/reference"
)

// BuildReport scores two test speakers against the two longest speakers of
// rec. It either returns a full report or an error, never a partial one.
func BuildReport(key string, rec reference.Recording, test0, test1 interval.Set, t Tuning) (*Report, error) {
	refAID, refBID, err := reference.TopTwo(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	refA, refB := rec[refAID], rec[refBID]

	best := assignment.Best(test0, test1, refA, refB, assignment.WithTieEpsilon(t.TieEpsilon))

	ids := map[string]string{assignment.RefA: refAID, assignment.RefB: refBID}
	mapping := make(map[string]string, len(best.Mapping))
	for testLabel, ref := range best.Mapping {
		mapping[testLabel] = ids[ref]
	}

	micro := metrics.Score(
		interval.Union(t.MergeEpsilon, test0, test1),
		interval.Union(t.MergeEpsilon, refA, refB),
	)

	return &Report{
		RecordingKey:      key,
		ReferenceSpeakers: [2]string{refAID, refBID},
		Mapping:           mapping,
		Speakers:          best.Speakers,
		MacroF1:           best.MacroF1,
		TotalOverlap:      best.TotalOverlap,
		Micro:             micro,
	}, nil
}

// Summarize averages per-recording scores and pools micro durations.
func Summarize(reports []*Report) Summary {
	var (
		s                        Summary
		testDur, refDur, overlap float64
	)
	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Recordings++
		s.MeanMacroF1 += r.MacroF1
		s.MeanMicroF1 += r.Micro.F1
		s.MeanMicroIoU += r.Micro.IoU
		testDur += r.Micro.TestDuration
		refDur += r.Micro.ReferenceDuration
		overlap += r.Micro.Overlap
	}
	if s.Recordings > 0 {
		n := float64(s.Recordings)
		s.MeanMacroF1 /= n
		s.MeanMicroF1 /= n
		s.MeanMicroIoU /= n
	}
	s.Pooled = metrics.FromDurations(testDur, refDur, overlap)
	return s
}
