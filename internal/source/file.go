package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/dbsmedya/ndjson2csv/internal/record"
)

// FileSource reads records from a file or from standard input.
//
// Standard input can only be read once, so it is copied to a temporary file
// on the first Open and every pass reads that copy.
type FileSource struct {
	path    string
	isArray bool

	stdin      io.Reader
	isTerminal func() bool
	spool      string
}

// FileOption customises a FileSource.
type FileOption func(*FileSource)

// WithStdin replaces os.Stdin as the reader used for "-".
func WithStdin(r io.Reader) FileOption {
	return func(s *FileSource) {
		s.stdin = r
		s.isTerminal = func() bool { return false }
	}
}

// NewFileSource returns a source for path. An empty path or "-" reads
// standard input. isArray selects a single top-level JSON array instead of
// newline-delimited JSON.
func NewFileSource(path string, isArray bool, opts ...FileOption) *FileSource {
	s := &FileSource{
		path:       path,
		isArray:    isArray,
		stdin:      os.Stdin,
		isTerminal: stdinIsTerminal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *FileSource) readsStdin() bool {
	return s.path == "" || s.path == "-"
}

// Describe returns the file path or "stdin".
func (s *FileSource) Describe() string {
	if s.readsStdin() {
		return "stdin"
	}
	return s.path
}

// Open starts a new pass over the input.
func (s *FileSource) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path
	if s.readsStdin() {
		if err := s.spoolStdin(); err != nil {
			return nil, err
		}
		path = s.spool
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return newJSONStream(f, s.isArray), nil
}

func (s *FileSource) spoolStdin() error {
	if s.spool != "" {
		return nil
	}
	if s.isTerminal() {
		return ErrNoInput
	}

	tmp, err := os.CreateTemp("", "ndjson-to-csv-*.json")
	if err != nil {
		return fmt.Errorf("failed to buffer stdin: %w", err)
	}
	if _, err := io.Copy(tmp, s.stdin); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to buffer stdin: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to buffer stdin: %w", err)
	}

	s.spool = tmp.Name()
	return nil
}

// Close removes the stdin copy, if any.
func (s *FileSource) Close() error {
	if s.spool == "" {
		return nil
	}
	err := os.Remove(s.spool)
	s.spool = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stdin buffer: %w", err)
	}
	return nil
}

// jsonStream decodes records from NDJSON or from one top-level array.
// NDJSON is read one line at a time: each non-blank line must hold exactly
// one JSON object.
type jsonStream struct {
	rc      io.ReadCloser
	lines   *bufio.Reader
	dec     *json.Decoder
	isArray bool
	opened  bool
	done    bool
	n       int64
}

func newJSONStream(rc io.ReadCloser, isArray bool) *jsonStream {
	s := &jsonStream{rc: rc, isArray: isArray}
	if isArray {
		s.dec = record.NewDecoder(rc)
	} else {
		s.lines = bufio.NewReader(rc)
	}
	return s
}

func (s *jsonStream) Next(ctx context.Context) (*record.Object, error) {
	if s.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var v any
	var err error
	if s.isArray {
		v, err = s.nextArrayValue()
	} else {
		v, err = s.nextLineValue()
	}
	if err != nil {
		s.done = true
		return nil, err
	}

	obj, ok := v.(*record.Object)
	if !ok {
		s.done = true
		return nil, &ParseError{Record: s.n, Err: ErrNotObject}
	}
	return obj, nil
}

// nextLineValue parses the next non-blank NDJSON line.
func (s *jsonStream) nextLineValue() (any, error) {
	for {
		line, readErr := s.lines.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read input: %w", readErr)
		}

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			s.n++
			v, err := record.Parse(line)
			if err != nil {
				return nil, &ParseError{Record: s.n, Err: err}
			}
			return v, nil
		}

		if readErr != nil {
			return nil, io.EOF
		}
	}
}

// nextArrayValue decodes the next element of the top-level array.
func (s *jsonStream) nextArrayValue() (any, error) {
	more, err := s.nextElement()
	if err != nil {
		return nil, err
	}
	if !more {
		return nil, io.EOF
	}

	v, err := record.ReadValue(s.dec)
	s.n++
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ParseError{Record: s.n, Err: err}
	}
	return v, nil
}

// nextElement positions the decoder on the next array element and reports
// whether there is one. The opening bracket is consumed on the first call
// and the closing bracket when the array ends.
func (s *jsonStream) nextElement() (bool, error) {
	if !s.opened {
		s.opened = true
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, &ParseError{Err: err}
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return false, &ParseError{Err: ErrNotArray}
		}
	}

	if s.dec.More() {
		return true, nil
	}

	if _, err := s.dec.Token(); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return false, &ParseError{Record: s.n, Err: err}
	}
	if _, err := s.dec.Token(); !errors.Is(err, io.EOF) {
		return false, &ParseError{Record: s.n, Err: errors.New("trailing data after JSON array")}
	}
	return false, nil
}

func (s *jsonStream) Close() error {
	return s.rc.Close()
}
