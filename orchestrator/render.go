package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/edmo-diareval/metrics"
)

// FormatMetrics renders m for humans: ratios to 3 decimals, seconds to 2.
func FormatMetrics(m metrics.Metrics) string {
	return fmt.Sprintf("P=%.3f R=%.3f F1=%.3f IoU=%.3f Overlap=%.2fs Test=%.2fs Ref=%.2fs",
		m.Precision, m.Recall, m.F1, m.IoU, m.Overlap, m.TestDuration, m.ReferenceDuration)
}

// WriteText prints a report in the console layout.
func WriteText(w io.Writer, r *Report) error {
	labels := make([]string, 0, len(r.Speakers))
	for l := range r.Speakers {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	ew := &errWriter{w: w}
	ew.printf("Target: %s\n", r.RecordingKey)
	ew.printf("Reference speakers considered (by duration): %s %s\n", r.ReferenceSpeakers[0], r.ReferenceSpeakers[1])
	ew.printf("Best assignment (test->reference):")
	for _, l := range labels {
		ew.printf(" spk%s->%s", l, r.Mapping[l])
	}
	ew.printf("\n")
	for _, l := range labels {
		ew.printf("spk%s: %s\n", l, FormatMetrics(r.Speakers[l]))
	}
	ew.printf("Macro-F1: %.3f\n", r.MacroF1)
	ew.printf("Micro: %s\n", FormatMetrics(r.Micro))
	return ew.err
}

// WriteSummaryText prints a batch summary.
func WriteSummaryText(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("Recordings: %d\n", s.Recordings)
	ew.printf("Mean Macro-F1: %.3f\n", s.MeanMacroF1)
	ew.printf("Mean Micro-F1: %.3f  Mean Micro-IoU: %.3f\n", s.MeanMicroF1, s.MeanMicroIoU)
	ew.printf("Pooled: %s\n", FormatMetrics(s.Pooled))
	return ew.err
}

// Encode writes v as indented JSON or YAML with full precision.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
