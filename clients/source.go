package clients

import (
	"context"
	"errors"

	"github.com/maastricht-university/edmo-diareval/interval"
)

// ErrNoSource means no test output exists for a recording.
var ErrNoSource = errors.New("no test intervals for recording")

// TestSource yields the normalized intervals of test speakers "0" and "1"
// for a recording key.
type TestSource interface {
	Lookup(ctx context.Context, key string) (test0, test1 interval.Set, err error)
}
