package interval

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListing = `1
00:00:01.000 --> 00:00:03.500
hello there

2
00:00:03.500 --> 00:00:05.000
# comment
00:01:00.250 --> 00:01:02.000
  00:02:00.000 --> 00:02:01.000
00:03:00.000 --> 00:02:59.000
0:00:10.000 --> 0:00:11.000
00:00:20.000-->00:00:21.000
01:00:00.000 --> 01:00:00.500
`

func TestParseTimestamps(t *testing.T) {
	s, err := ParseTimestamps(strings.NewReader(sampleListing), DefaultMergeEpsilon)
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{Start: 1, End: 5},
		{Start: 60.25, End: 62},
		{Start: 120, End: 121},
		{Start: 3600, End: 3600.5},
	}, s.Intervals())
}

func TestParseTimestamps_Empty(t *testing.T) {
	s, err := ParseTimestamps(strings.NewReader("no timestamps here\n"), DefaultMergeEpsilon)
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestReadTimestampFile_Missing(t *testing.T) {
	s, err := ReadTimestampFile(filepath.Join(t.TempDir(), "spk0.txt"), DefaultMergeEpsilon)
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestReadTimestampFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spk1.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleListing), 0o644))

	s, err := ReadTimestampFile(path, DefaultMergeEpsilon)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatClock(0))
	assert.Equal(t, "00:01:01.234", FormatClock(61.234))
	assert.Equal(t, "01:00:00.500", FormatClock(3600.5))
}

func TestWriteTimestamps_RoundTrip(t *testing.T) {
	in := Normalize([]Interval{{0.5, 1.25}, {10, 12.75}, {3599.999, 3600.5}})
	var buf bytes.Buffer
	require.NoError(t, WriteTimestamps(&buf, in))

	out, err := ParseTimestamps(&buf, DefaultMergeEpsilon)
	require.NoError(t, err)
	require.Equal(t, in.Len(), out.Len())
	for i := 0; i < in.Len(); i++ {
		assert.InDelta(t, in.At(i).Start, out.At(i).Start, 1e-9)
		assert.InDelta(t, in.At(i).End, out.At(i).End, 1e-9)
	}
}
