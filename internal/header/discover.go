package header

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dbsmedya/ndjson2csv/internal/record"
)

// Strategy selects how much of the stream header discovery reads.
type Strategy int

const (
	// Union reads every record and keeps every column seen, in first-seen
	// order.
	Union Strategy = iota
	// FirstRow reads only the first record and uses its columns. Columns
	// that only appear later are not reported.
	FirstRow
)

func (s Strategy) String() string {
	switch s {
	case Union:
		return "union"
	case FirstRow:
		return "first-row"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Reader yields records one at a time and returns io.EOF at the end.
type Reader interface {
	Next(ctx context.Context) (*record.Object, error)
}

// Normalizer flattens a record into its columns.
type Normalizer interface {
	Normalize(rec *record.Object) *record.Flat
}

// Discover reads records from r and returns their columns. An empty stream
// gives an empty Set. Read errors abort discovery and are returned as is.
func Discover(ctx context.Context, r Reader, strategy Strategy, n Normalizer) (*Set, error) {
	set := NewSet()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return set, nil
		}
		if err != nil {
			return nil, err
		}

		set.AddAll(n.Normalize(rec).Keys())

		if strategy == FirstRow {
			return set, nil
		}
	}
}
