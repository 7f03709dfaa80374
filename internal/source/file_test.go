package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/ndjson2csv/internal/record"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// drain reads a whole pass and returns each record re-encoded as JSON.
func drain(t *testing.T, src Source) ([]string, error) {
	t.Helper()
	stream, err := src.Open(context.Background())
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var out []string
	for {
		rec, err := stream.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, record.Encode(rec))
	}
}

func TestFileSource_NDJSON(t *testing.T) {
	path := writeInput(t, "{\"b\":1,\"a\":{\"c\":2.50}}\n\n{\"x\":null}\n  {\"y\":[1,2]}")
	src := NewFileSource(path, false)

	got, err := drain(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{`{"b":1,"a":{"c":2.50}}`, `{"x":null}`, `{"y":[1,2]}`}, got)
	assert.Equal(t, path, src.Describe())
}

func TestFileSource_NDJSONLineEndings(t *testing.T) {
	path := writeInput(t, "{\"a\":1}\r\n\r\n{\"a\":2}\r\n")

	got, err := drain(t, NewFileSource(path, false))

	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, got)
}

func TestFileSource_Array(t *testing.T) {
	path := writeInput(t, "[\n  {\"a\":1},\n  {\"b\":{\"c\":2}}\n]\n")

	got, err := drain(t, NewFileSource(path, true))

	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`, `{"b":{"c":2}}`}, got)
}

func TestFileSource_EmptyInput(t *testing.T) {
	for _, isArray := range []bool{false, true} {
		got, err := drain(t, NewFileSource(writeInput(t, "  \n"), isArray))
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	got, err := drain(t, NewFileSource(writeInput(t, "[]"), true))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		isArray bool
		record  int64
		target  error
		keep    int
	}{
		{name: "malformed second record", content: "{\"a\":1}\n{\"a\":\n", record: 2, target: io.ErrUnexpectedEOF, keep: 1},
		{name: "scalar record", content: "{\"a\":1}\n42\n", record: 2, target: ErrNotObject, keep: 1},
		{name: "two values on one line", content: "{\"a\":1}\n{\"a\":1}{\"b\":2}\n", record: 2, target: record.ErrTrailingData, keep: 1},
		{name: "object split across lines", content: "{\"a\":\n1}\n", record: 1, target: io.ErrUnexpectedEOF},
		{name: "array without flag", content: "[{\"a\":1}]", record: 1, target: ErrNotObject},
		{name: "object with flag", content: "{\"a\":1}", isArray: true, record: 0, target: ErrNotArray},
		{name: "unterminated array", content: "[{\"a\":1},", isArray: true, record: 2, target: io.ErrUnexpectedEOF, keep: 1},
		{name: "unclosed array", content: "[{\"a\":1}", isArray: true, record: 1, target: io.ErrUnexpectedEOF, keep: 1},
		{name: "scalar element", content: "[{\"a\":1},\"x\"]", isArray: true, record: 2, target: ErrNotObject, keep: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drain(t, NewFileSource(writeInput(t, tt.content), tt.isArray))

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.record, perr.Record)
			assert.ErrorIs(t, err, tt.target)
			assert.Len(t, got, tt.keep)
		})
	}
}

func TestFileSource_SyntaxError(t *testing.T) {
	_, err := drain(t, NewFileSource(writeInput(t, "{\"a\":1}\n{oops}\n"), false))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, int64(2), perr.Record)
	assert.Contains(t, err.Error(), "parse error at record 2")
}

func TestFileSource_TrailingDataAfterArray(t *testing.T) {
	got, err := drain(t, NewFileSource(writeInput(t, "[{\"a\":1}] {\"b\":2}"), true))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "trailing data")
	assert.Len(t, got, 1)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := drain(t, NewFileSource(filepath.Join(t.TempDir(), "nope.json"), false))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestFileSource_StdinIsSpooledForEveryPass(t *testing.T) {
	src := NewFileSource("-", false, WithStdin(strings.NewReader("{\"a\":1}\n{\"b\":2}\n")))
	assert.Equal(t, "stdin", src.Describe())

	first, err := drain(t, src)
	require.NoError(t, err)
	second, err := drain(t, src)
	require.NoError(t, err)

	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, first)
	assert.Equal(t, first, second)

	spool := src.spool
	require.NotEmpty(t, spool)
	require.NoError(t, src.Close())
	_, statErr := os.Stat(spool)
	assert.True(t, os.IsNotExist(statErr), "stdin buffer should be removed on Close")
	assert.NoError(t, src.Close())
}

func TestFileSource_TerminalStdin(t *testing.T) {
	src := NewFileSource("", false)
	src.isTerminal = func() bool { return true }

	_, err := src.Open(context.Background())

	assert.ErrorIs(t, err, ErrNoInput)
}

func TestFileSource_Cancelled(t *testing.T) {
	src := NewFileSource(writeInput(t, "{\"a\":1}\n"), false)
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := src.Open(ctx)
	require.NoError(t, err)
	defer stream.Close()

	cancel()
	_, err = stream.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseError_Unwrap(t *testing.T) {
	err := &ParseError{Record: 3, Err: ErrNotObject}

	assert.Equal(t, "parse error at record 3: record is not a JSON object", err.Error())
	assert.True(t, errors.Is(err, ErrNotObject))
}
