// Package reference loads ground-truth speaker intervals and picks the
// speakers an evaluation is scored against.
package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/edmo-diareval/interval"
)

// Format selects the serialization of a corpus file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Recording maps a speaker label to its canonical intervals.
type Recording map[string]interval.Set

// Corpus maps recording keys to recordings. It is read-only after loading.
type Corpus struct {
	recordings map[string]Recording
}

type options struct {
	mergeEpsilon float64
}

// Option configures corpus loading.
type Option func(*options)

// WithMergeEpsilon sets the adjacency threshold used to normalize every
// speaker's intervals.
func WithMergeEpsilon(eps float64) Option {
	return func(o *options) { o.mergeEpsilon = eps }
}

// LoadFile reads and decodes the corpus at path.
func LoadFile(path string, opts ...Option) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference %s: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f, FormatFromPath(path), opts...)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a corpus of recording -> speaker -> [[start, end], ...].
// Malformed recordings, speakers and pairs are skipped.
func Decode(r io.Reader, format Format, opts ...Option) (*Corpus, error) {
	o := options{mergeEpsilon: interval.DefaultMergeEpsilon}
	for _, opt := range opts {
		opt(&o)
	}

	var doc map[string]any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("json decode: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown corpus format %q", format)
	}

	c := &Corpus{recordings: make(map[string]Recording, len(doc))}
	for key, v := range doc {
		speakers, ok := stringMap(v)
		if !ok {
			continue
		}
		rec := make(Recording, len(speakers))
		for spk, ranges := range speakers {
			list, ok := ranges.([]any)
			if !ok {
				continue
			}
			rec[spk] = interval.NormalizeEpsilon(coercePairs(list), o.mergeEpsilon)
		}
		c.recordings[key] = rec
	}
	return c, nil
}

// NewCorpus builds a corpus from already normalized recordings.
func NewCorpus(recordings map[string]Recording) *Corpus {
	c := &Corpus{recordings: make(map[string]Recording, len(recordings))}
	for k, rec := range recordings {
		cp := make(Recording, len(rec))
		for spk, s := range rec {
			cp[spk] = s
		}
		c.recordings[k] = cp
	}
	return c
}

// Recording returns the speakers of key, or a *NotFoundError.
func (c *Corpus) Recording(key string) (Recording, error) {
	rec, ok := c.recordings[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	out := make(Recording, len(rec))
	for spk, s := range rec {
		out[spk] = s
	}
	return out, nil
}

// Keys lists recording keys in lexical order.
func (c *Corpus) Keys() []string {
	keys := make([]string, 0, len(c.recordings))
	for k := range c.recordings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of recordings.
func (c *Corpus) Len() int { return len(c.recordings) }

// stringMap accepts both map shapes a decoder may produce; YAML mappings with
// unquoted numeric speaker labels come back keyed by any.
func stringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func coercePairs(list []any) []interval.Interval {
	out := make([]interval.Interval, 0, len(list))
	for _, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		start, ok := toSeconds(pair[0])
		if !ok {
			continue
		}
		end, ok := toSeconds(pair[1])
		if !ok {
			continue
		}
		out = append(out, interval.Interval{Start: start, End: end})
	}
	return out
}

func toSeconds(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
