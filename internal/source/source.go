// Package source reads JSON records from files, standard input or a MySQL
// query. Every pass of the pipeline opens a fresh Stream over the same input.
package source

import (
	"context"

	"github.com/dbsmedya/ndjson2csv/internal/record"
)

// Source yields the same record sequence each time it is opened.
type Source interface {
	// Open starts a new pass over the input.
	Open(ctx context.Context) (Stream, error)
	// Describe names the input for logs.
	Describe() string
	// Close releases resources held across passes.
	Close() error
}

// Stream is one pass over a Source. Next returns io.EOF after the last record.
type Stream interface {
	Next(ctx context.Context) (*record.Object, error)
	Close() error
}

// Counter is implemented by sources that can report their record count
// without a full read.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}
