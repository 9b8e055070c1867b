package interval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var reTimestampLine = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}\.\d{3})\s+-->\s+(\d{2}):(\d{2}):(\d{2}\.\d{3})$`)

// ParseTimestamps reads a listing of "HH:MM:SS.mmm --> HH:MM:SS.mmm" lines.
// Every other line (indices, text, blanks) is ignored.
func ParseTimestamps(r io.Reader, eps float64) (Set, error) {
	var raw []Interval
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := reTimestampLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		start, err := clockSeconds(m[1], m[2], m[3])
		if err != nil {
			continue
		}
		end, err := clockSeconds(m[4], m[5], m[6])
		if err != nil {
			continue
		}
		raw = append(raw, Interval{Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return Set{}, fmt.Errorf("scan timestamps: %w", err)
	}
	return NormalizeEpsilon(raw, eps), nil
}

// ReadTimestampFile parses the listing at path. A missing file means the
// speaker produced no speech and yields the empty set.
func ReadTimestampFile(path string, eps float64) (Set, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return Set{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ParseTimestamps(f, eps)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FormatClock renders seconds as HH:MM:SS.mmm.
func FormatClock(sec float64) string {
	ms := int64(sec*1000 + 0.5)
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

func clockSeconds(h, m, s string) (float64, error) {
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	ss, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return float64(hh)*3600 + float64(mm)*60 + ss, nil
}

// WriteTimestamps writes s in the listing format ParseTimestamps reads.
func WriteTimestamps(w io.Writer, s Set) error {
	bw := bufio.NewWriter(w)
	for i, iv := range s.items {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n\n", i+1, FormatClock(iv.Start), FormatClock(iv.End)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
