package reference

import (
	"sort"

	"github.com/maastricht-university/edmo-diareval/interval"
)

// SpeakerDuration pairs a speaker label with its total speaking time.
type SpeakerDuration struct {
	Label    string  `json:"label" yaml:"label"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// Rank orders speakers by total duration, longest first. Equal durations are
// ordered by label so results do not depend on map iteration.
func Rank(rec Recording) []SpeakerDuration {
	out := make([]SpeakerDuration, 0, len(rec))
	for label, s := range rec {
		out = append(out, SpeakerDuration{Label: label, Duration: interval.TotalDuration(s)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration > out[j].Duration
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// TopTwo returns the two speakers with the most speech.
func TopTwo(rec Recording) (string, string, error) {
	ranked := Rank(rec)
	if len(ranked) < 2 {
		return "", "", &InsufficientSpeakersError{Found: len(ranked)}
	}
	return ranked[0].Label, ranked[1].Label, nil
}
