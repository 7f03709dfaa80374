// Package projector maps flattened records onto a fixed header set so every
// output row has the same columns in the same order.
package projector

import (
	"context"
	"errors"
	"io"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/ndjson2csv/internal/header"
	"github.com/dbsmedya/ndjson2csv/internal/record"
	"github.com/dbsmedya/ndjson2csv/internal/types"
)

// Row is a projected record: exactly the header columns, in header order,
// with stringified cell values.
type Row = orderedmap.OrderedMap[string, string]

// Writer consumes projected rows.
type Writer interface {
	WriteRow(row *Row) error
}

// Project builds the row for flat. Columns absent from flat are empty;
// columns of flat outside headers are dropped without error.
func Project(flat *record.Flat, headers *header.Set) *Row {
	row := orderedmap.NewOrderedMap[string, string]()
	for _, name := range headers.Names() {
		v, _ := flat.Get(name)
		row.Set(name, types.ToCell(v))
	}
	return row
}

// Values returns the cells of row in column order.
func Values(row *Row) []string {
	out := make([]string, 0, row.Len())
	for el := row.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Projector runs the body pass over a record stream.
type Projector struct {
	headers    *header.Set
	normalizer header.Normalizer

	rows           int64
	rowsWithExtras int64
}

// New returns a Projector for a frozen header set.
func New(headers *header.Set, n header.Normalizer) *Projector {
	return &Projector{
		headers:    headers,
		normalizer: n,
	}
}

// Project normalizes rec and projects it onto the header set.
func (p *Projector) Project(rec *record.Object) *Row {
	flat := p.normalizer.Normalize(rec)
	row := Project(flat, p.headers)

	if countExtras(flat, p.headers) > 0 {
		p.rowsWithExtras++
	}
	p.rows++
	return row
}

// Run projects every record of r into w until r is exhausted.
func (p *Projector) Run(ctx context.Context, r header.Reader, w Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := w.WriteRow(p.Project(rec)); err != nil {
			return err
		}
	}
}

// Rows returns how many rows were projected.
func (p *Projector) Rows() int64 {
	return p.rows
}

// RowsWithExtras returns how many rows had columns outside the header set.
func (p *Projector) RowsWithExtras() int64 {
	return p.rowsWithExtras
}

func countExtras(flat *record.Flat, headers *header.Set) int {
	extras := 0
	for el := flat.Front(); el != nil; el = el.Next() {
		if !headers.Has(el.Key) {
			extras++
		}
	}
	return extras
}
