package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// RecordingsDir holds the per-recording reports inside a session directory.
const RecordingsDir = "recordings"

// PersistedRecording ties a recording key to its report file, relative to
// the session directory.
type PersistedRecording struct {
	Key  string `json:"key"`
	File string `json:"file"`
}

type PersistBundle struct {
	SessionID   string               `json:"session_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Recordings  []PersistedRecording `json:"recordings"`
	Summary     Summary              `json:"summary"`
}

func mkSessionDir(outputsRoot string) (string, string, error) {
	ts := time.Now().Format("20060102-150405")
	sid := "session_" + ts + "_" + uuid.NewString()[:8]
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Persist writes one JSON file per report under recordings/ plus summary.json
// into a fresh session directory under outputsRoot and returns that
// directory. The summary is computed from reports.
func Persist(outputsRoot string, reports []*Report) (string, error) {
	sid, outDir, err := mkSessionDir(outputsRoot)
	if err != nil {
		return "", err
	}
	recDir := filepath.Join(outDir, RecordingsDir)
	if err := os.MkdirAll(recDir, 0o755); err != nil {
		return "", err
	}

	stems := newStemSet()
	written := make([]PersistedRecording, 0, len(reports))
	for _, r := range reports {
		name := stems.claim(fileStem(r.RecordingKey)) + ".json"
		if err := writeJSON(filepath.Join(recDir, name), r); err != nil {
			return "", err
		}
		written = append(written, PersistedRecording{
			Key:  r.RecordingKey,
			File: filepath.ToSlash(filepath.Join(RecordingsDir, name)),
		})
	}

	bundle := PersistBundle{
		SessionID:   sid,
		GeneratedAt: time.Now(),
		Recordings:  written,
		Summary:     Summarize(reports),
	}
	if err := writeJSON(filepath.Join(outDir, "summary.json"), bundle); err != nil {
		return "", err
	}
	return outDir, nil
}

// stemSet hands out file stems that stay distinct on case-insensitive
// filesystems too; a taken stem gets a -2, -3, ... suffix.
type stemSet map[string]bool

func newStemSet() stemSet { return stemSet{} }

func (s stemSet) claim(stem string) string {
	name := stem
	for n := 2; s[strings.ToLower(name)]; n++ {
		name = stem + "-" + strconv.Itoa(n)
	}
	s[strings.ToLower(name)] = true
	return name
}

func fileStem(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "recording"
	}
	return s
}
