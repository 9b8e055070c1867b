package clients

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/maastricht-university/edmo-diareval/interval"
)

// Per-speaker listing names written by the upstream diarization tool.
const (
	Speaker0File = "spk0.txt"
	Speaker1File = "spk1.txt"
)

// FilePair names the two timestamp listings of a recording.
type FilePair struct {
	Speaker0 string `yaml:"spk0" json:"spk0"`
	Speaker1 string `yaml:"spk1" json:"spk1"`
}

// FileSource serves test intervals from an explicit key -> files mapping.
type FileSource struct {
	Files        map[string]FilePair
	MergeEpsilon float64
}

// Lookup reads both listings of key. Missing files are empty sets.
func (s *FileSource) Lookup(ctx context.Context, key string) (interval.Set, interval.Set, error) {
	if err := ctx.Err(); err != nil {
		return interval.Set{}, interval.Set{}, err
	}
	pair, ok := s.Files[key]
	if !ok {
		return interval.Set{}, interval.Set{}, fmt.Errorf("%w: %s", ErrNoSource, key)
	}
	return readPair(pair, s.MergeEpsilon)
}

// DirSource finds a recording's listings under Root: the first directory
// whose path contains the key (without extension) and holds spk0.txt or
// spk1.txt.
type DirSource struct {
	Root         string
	MergeEpsilon float64
}

// Lookup walks Root for key's directory.
func (s *DirSource) Lookup(ctx context.Context, key string) (interval.Set, interval.Set, error) {
	dir, err := s.find(ctx, key)
	if err != nil {
		return interval.Set{}, interval.Set{}, err
	}
	return readPair(FilePair{
		Speaker0: filepath.Join(dir, Speaker0File),
		Speaker1: filepath.Join(dir, Speaker1File),
	}, s.MergeEpsilon)
}

var errFound = errors.New("found")

func (s *DirSource) find(ctx context.Context, key string) (string, error) {
	needle := strings.TrimSuffix(key, filepath.Ext(key))
	if needle == "" {
		needle = key
	}
	var found string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() || !strings.Contains(path, needle) {
			return nil
		}
		if exists(filepath.Join(path, Speaker0File)) || exists(filepath.Join(path, Speaker1File)) {
			found = path
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return found, nil
	case err != nil:
		return "", fmt.Errorf("search %s: %w", s.Root, err)
	default:
		return "", fmt.Errorf("%w: %s under %s", ErrNoSource, key, s.Root)
	}
}

func readPair(pair FilePair, eps float64) (interval.Set, interval.Set, error) {
	test0, err := interval.ReadTimestampFile(pair.Speaker0, eps)
	if err != nil {
		return interval.Set{}, interval.Set{}, err
	}
	test1, err := interval.ReadTimestampFile(pair.Speaker1, eps)
	if err != nil {
		return interval.Set{}, interval.Set{}, err
	}
	return test0, test1, nil
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
