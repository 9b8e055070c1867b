package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/edmo-diareval/interval"
)

const corpusJSON = `{
  "meeting.mp3": {
    "A": [[0, 10], [5, 20], [30, 40]],
    "B": [[20, 25], ["26.5", "28"], [3], "bad", [1, "x"], [9, 9], [-1, 2]],
    "C": [[50, 51]],
    "D": "not a list"
  },
  "broken.mp3": ["not", "an", "object"],
  "solo.mp3": {
    "A": [[0, 1]]
  }
}`

func TestDecode_JSON(t *testing.T) {
	c, err := Decode(strings.NewReader(corpusJSON), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting.mp3", "solo.mp3"}, c.Keys())

	rec, err := c.Recording("meeting.mp3")
	require.NoError(t, err)
	require.Len(t, rec, 3)
	assert.Equal(t, []interval.Interval{{Start: 0, End: 20}, {Start: 30, End: 40}}, rec["A"].Intervals())
	assert.Equal(t, []interval.Interval{{Start: 20, End: 25}, {Start: 26.5, End: 28}}, rec["B"].Intervals())
	assert.Equal(t, []interval.Interval{{Start: 50, End: 51}}, rec["C"].Intervals())
}

func TestDecode_YAML(t *testing.T) {
	doc := `
meeting.mp3:
  A:
    - [0, 10]
    - [12.5, 15]
  B:
    - [10, 12]
    - [1]
`
	c, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	rec, err := c.Recording("meeting.mp3")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, interval.TotalDuration(rec["A"]), 1e-12)
	assert.InDelta(t, 2.0, interval.TotalDuration(rec["B"]), 1e-12)
}

func TestDecode_YAMLNumericLabels(t *testing.T) {
	doc := `
"rec.mp3":
  1: [[0, 4]]
  2: [[4, 5]]
`
	c, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	rec, err := c.Recording("rec.mp3")
	require.NoError(t, err)
	a, b, err := TopTwo(rec)
	require.NoError(t, err)
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
}

func TestDecode_EmptyYAML(t *testing.T) {
	c, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(`[1, 2]`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestDecode_MergeEpsilon(t *testing.T) {
	doc := `{"r": {"A": [[0, 1], [1.05, 2]]}}`

	c, err := Decode(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)
	rec, _ := c.Recording("r")
	assert.Equal(t, 2, rec["A"].Len())

	c, err = Decode(strings.NewReader(doc), FormatJSON, WithMergeEpsilon(0.1))
	require.NoError(t, err)
	rec, _ = c.Recording("r")
	assert.Equal(t, 1, rec["A"].Len())
}

func TestRecording_NotFound(t *testing.T) {
	c, err := Decode(strings.NewReader(corpusJSON), FormatJSON)
	require.NoError(t, err)

	_, err = c.Recording("missing.mp3")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing.mp3", nf.Key)

	_, err = c.Recording("broken.mp3")
	assert.True(t, errors.As(err, &nf))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "all_reference.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(corpusJSON), 0o644))

	c, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = LoadFile(filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("ref.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("ref.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("ref.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("ref"))
}

func spans(d float64) interval.Set {
	return interval.Normalize([]interval.Interval{{Start: 0, End: d}})
}

func TestTopTwo(t *testing.T) {
	rec := Recording{"C": spans(10), "A": spans(50), "B": spans(30)}
	for i := 0; i < 20; i++ {
		a, b, err := TopTwo(rec)
		require.NoError(t, err)
		assert.Equal(t, "A", a)
		assert.Equal(t, "B", b)
	}
}

func TestTopTwo_TieBreaksByLabel(t *testing.T) {
	rec := Recording{"z": spans(5), "m": spans(5), "a": spans(5)}
	a, b, err := TopTwo(rec)
	require.NoError(t, err)
	assert.Equal(t, "a", a)
	assert.Equal(t, "m", b)
}

func TestTopTwo_Insufficient(t *testing.T) {
	for _, rec := range []Recording{{}, {"A": spans(3)}} {
		_, _, err := TopTwo(rec)
		var ins *InsufficientSpeakersError
		require.True(t, errors.As(err, &ins))
		assert.Equal(t, len(rec), ins.Found)
	}
}

func TestRank(t *testing.T) {
	got := Rank(Recording{"B": spans(2), "A": spans(4), "E": {}})
	assert.Equal(t, []SpeakerDuration{
		{Label: "A", Duration: 4},
		{Label: "B", Duration: 2},
		{Label: "E", Duration: 0},
	}, got)
}

func TestNewCorpus_Copies(t *testing.T) {
	src := map[string]Recording{"r": {"A": spans(1), "B": spans(2)}}
	c := NewCorpus(src)
	delete(src["r"], "A")

	rec, err := c.Recording("r")
	require.NoError(t, err)
	assert.Len(t, rec, 2)

	delete(rec, "B")
	again, _ := c.Recording("r")
	assert.Len(t, again, 2)
}
