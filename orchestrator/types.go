package orchestrator

import "github.com/maastricht-university/edmo-diareval/metrics"

// Tuning carries the comparison thresholds of one evaluation run.
type Tuning struct {
	MergeEpsilon float64
	TieEpsilon   float64
}

// Report is the outcome of evaluating one recording.
type Report struct {
	// RecordingKey names the recording in the reference corpus.
	RecordingKey string `json:"recording_key" yaml:"recording_key"`
	// ReferenceSpeakers are the two reference labels scored against, longest first.
	ReferenceSpeakers [2]string `json:"reference_speakers" yaml:"reference_speakers"`
	// Mapping sends test labels "0" and "1" to reference labels.
	Mapping map[string]string `json:"mapping" yaml:"mapping"`
	// Speakers holds the metrics of each test label against its mapped reference.
	Speakers map[string]metrics.Metrics `json:"speakers" yaml:"speakers"`
	// MacroF1 is the mean F1 of both test labels.
	MacroF1 float64 `json:"macro_f1" yaml:"macro_f1"`
	// TotalOverlap is the summed overlap in seconds of both mapped pairs.
	TotalOverlap float64 `json:"total_overlap" yaml:"total_overlap"`
	// Micro scores both test speakers merged against both references merged.
	Micro metrics.Metrics `json:"micro" yaml:"micro"`
}

// Summary aggregates a batch of reports.
type Summary struct {
	// Recordings is the number of reports summarized.
	Recordings int `json:"recordings" yaml:"recordings"`
	// MeanMacroF1, MeanMicroF1 and MeanMicroIoU average per-recording scores.
	MeanMacroF1  float64 `json:"mean_macro_f1" yaml:"mean_macro_f1"`
	MeanMicroF1  float64 `json:"mean_micro_f1" yaml:"mean_micro_f1"`
	MeanMicroIoU float64 `json:"mean_micro_iou" yaml:"mean_micro_iou"`
	// Pooled recomputes micro metrics from durations summed over every recording.
	Pooled metrics.Metrics `json:"pooled" yaml:"pooled"`
}
