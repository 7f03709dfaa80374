// Package pipeline runs the two-pass JSON to CSV conversion: a discovery
// pass that fixes the header set, then a projection pass that writes one
// row per record.
package pipeline

import (
	"github.com/dbsmedya/ndjson2csv/internal/config"
	"github.com/dbsmedya/ndjson2csv/internal/header"
	"github.com/dbsmedya/ndjson2csv/internal/projector"
	"github.com/dbsmedya/ndjson2csv/internal/record"
	"github.com/dbsmedya/ndjson2csv/internal/verifier"
)

// Progress labels, one per pass.
const (
	LabelCount    = "Counting records"
	LabelDiscover = "Detecting headers"
	LabelWrite    = "Writing data"
)

// ProgressSink receives one Tick per record of a pass.
type ProgressSink interface {
	Start(label string, total int64)
	Tick()
	Finish()
}

// RowWriter consumes the header line and the projected rows.
type RowWriter interface {
	WriteHeader(names []string) error
	WriteRow(row *projector.Row) error
	Flush() error
}

// Options configures one run. It is not modified after construction.
type Options struct {
	OnlyShowHeaders    bool
	UseFirstRowHeaders bool
	IsArray            bool
	RetainPaths        []string
	RetainArrays       bool

	// Verify selects how the write pass is checked against the discovery
	// pass. Only the union strategy reads the whole input twice.
	Verify verifier.VerificationMethod

	// Progress is optional. When set, a counting pass runs first so the
	// sink knows each pass's total.
	Progress ProgressSink
}

// OptionsFromConfig maps configuration onto Options. Progress is left nil;
// the caller attaches a sink when progress output is wanted.
func OptionsFromConfig(cfg *config.Config) Options {
	paths := make([]string, len(cfg.Flatten.RetainPaths))
	copy(paths, cfg.Flatten.RetainPaths)

	return Options{
		OnlyShowHeaders:    cfg.Headers.OnlyShow,
		UseFirstRowHeaders: cfg.Headers.UseFirstRow,
		IsArray:            cfg.Input.IsArray,
		RetainPaths:        paths,
		RetainArrays:       cfg.Flatten.RetainArrays,
		Verify:             verifier.VerificationMethod(cfg.Verification.Method),
	}
}

// Strategy returns the header discovery strategy selected by o.
func (o Options) Strategy() header.Strategy {
	if o.UseFirstRowHeaders {
		return header.FirstRow
	}
	return header.Union
}

// Normalizer returns the record preparation shared by both passes.
func (o Options) Normalizer() record.Normalizer {
	return record.NewNormalizer(o.RetainPaths, record.FlattenOptions{RetainArrays: o.RetainArrays})
}
