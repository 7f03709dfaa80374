package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput is returned when no file is given and standard input is a
	// terminal.
	ErrNoInput = errors.New("no input: pass a filename or pipe data on stdin")

	// ErrNotObject is returned for a top-level value that is not a JSON object.
	ErrNotObject = errors.New("record is not a JSON object")

	// ErrNotArray is returned in array mode when the input does not start
	// with '['.
	ErrNotArray = errors.New("input is not a JSON array")
)

// ParseError reports a malformed record. Record is 1-based; 0 means the
// failure happened before the first record.
type ParseError struct {
	Record int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at record %d: %v", e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
