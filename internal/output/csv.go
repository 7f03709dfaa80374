// Package output writes projected rows as CSV and prints header listings.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dbsmedya/ndjson2csv/internal/projector"
)

// CSVWriter writes a header line followed by projected rows.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
	rows   int64
}

// NewCSVWriter returns a writer on w. The caller keeps ownership of w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// NewFileCSVWriter creates or truncates path and writes CSV to it.
func NewFileCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &CSVWriter{w: csv.NewWriter(f), closer: f}, nil
}

// WriteHeader writes the column names.
func (c *CSVWriter) WriteHeader(names []string) error {
	if err := c.w.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes the cells of row in column order.
func (c *CSVWriter) WriteRow(row *projector.Row) error {
	if err := c.w.Write(projector.Values(row)); err != nil {
		return fmt.Errorf("failed to write row %d: %w", c.rows+1, err)
	}
	c.rows++
	return nil
}

// Flush writes buffered data to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// Close flushes and closes the output file, if this writer opened one.
func (c *CSVWriter) Close() error {
	err := c.Flush()
	if c.closer != nil {
		if cerr := c.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
		c.closer = nil
	}
	return err
}

// Count returns the number of rows written.
func (c *CSVWriter) Count() int64 {
	return c.rows
}
