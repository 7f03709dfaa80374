package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dbsmedya/ndjson2csv/internal/header"
	"github.com/dbsmedya/ndjson2csv/internal/logger"
	"github.com/dbsmedya/ndjson2csv/internal/projector"
	"github.com/dbsmedya/ndjson2csv/internal/record"
	"github.com/dbsmedya/ndjson2csv/internal/source"
	"github.com/dbsmedya/ndjson2csv/internal/types"
	"github.com/dbsmedya/ndjson2csv/internal/verifier"
)

// Result is the outcome of a run.
type Result struct {
	Headers      *header.Set
	Stats        types.RunStats
	Verification *verifier.VerifyResult
}

// Orchestrator sequences the passes over one source.
type Orchestrator struct {
	src        source.Source
	opts       Options
	normalizer record.Normalizer
	logger     *logger.Logger
	verifier   *verifier.Verifier
	now        func() time.Time

	// digests of the discovery and write passes
	discovered *verifier.Digest
	written    *verifier.Digest
}

// NewOrchestrator creates an orchestrator for src. A nil logger falls back
// to the default stderr logger.
func NewOrchestrator(src source.Source, opts Options, log *logger.Logger) (*Orchestrator, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	v, err := verifier.NewVerifier(opts.Verify)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		src:        src,
		opts:       opts,
		normalizer: opts.Normalizer(),
		logger:     log.WithSource(src.Describe()),
		verifier:   v,
		now:        time.Now,
	}, nil
}

// Run discovers the header set and, unless only headers were requested,
// writes the header line and one row per record to w. Both passes see the
// same records prepared the same way, so every row has exactly the
// discovered columns.
func (o *Orchestrator) Run(ctx context.Context, w RowWriter) (*Result, error) {
	started := o.now()
	result := &Result{}

	var total int64
	if o.opts.Progress != nil {
		n, err := o.CountRecords(ctx)
		if err != nil {
			return nil, err
		}
		total = n
		result.Stats.Counted = n
	}

	headers, discovered, err := o.DiscoverHeaders(ctx, total)
	if err != nil {
		return nil, err
	}
	result.Headers = headers
	result.Stats.Discovered = discovered
	result.Stats.Columns = headers.Len()

	if o.opts.OnlyShowHeaders {
		result.Stats.Duration = o.now().Sub(started)
		return result, nil
	}

	if headers.Len() == 0 {
		o.logger.Warnw("No columns found, nothing to write", "records", discovered)
		result.Stats.Duration = o.now().Sub(started)
		return result, nil
	}

	written, extras, err := o.WriteBody(ctx, headers, w, total)
	result.Stats.Written = written
	result.Stats.RowsWithExtras = extras
	result.Stats.Duration = o.now().Sub(started)
	if err != nil {
		return result, err
	}

	if o.opts.Strategy() == header.Union {
		vr, err := o.verifier.Compare(o.discovered, o.written)
		result.Verification = vr
		if err != nil {
			o.logger.Debugw("Input changed between passes", "error", vr.ErrorMessage)
			return result, err
		}
		o.logger.Debugw("Passes verified", "method", string(o.verifier.Method()), "records", vr.SecondCount)
	}

	o.logger.Infow("Conversion completed",
		"rows", written,
		"columns", headers.Len(),
		"duration", result.Stats.Duration,
	)
	return result, nil
}

// CountRecords returns the number of records in the source. Sources that
// implement source.Counter answer directly; others are read in full.
func (o *Orchestrator) CountRecords(ctx context.Context) (int64, error) {
	log := o.logger.WithPass("count")

	if counter, ok := o.src.(source.Counter); ok {
		n, err := counter.Count(ctx)
		if err != nil {
			return 0, err
		}
		log.Debugw(LabelCount, "records", n, "counted_by", "source")
		return n, nil
	}

	stream, err := o.src.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	var n int64
	for {
		if _, err := stream.Next(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return n, err
		}
		n++
	}
	log.Debugw(LabelCount, "records", n)
	return n, nil
}

// DiscoverHeaders runs the discovery pass and returns the header set and
// the number of records read. total is the progress total; 0 disables the
// bar for this pass.
func (o *Orchestrator) DiscoverHeaders(ctx context.Context, total int64) (*header.Set, int64, error) {
	strategy := o.opts.Strategy()
	log := o.logger.WithPass("headers")
	log.Infow(LabelDiscover, "strategy", strategy.String())

	stream, err := o.src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	if strategy == header.FirstRow && total > 1 {
		total = 1
	}
	r := o.track(stream, LabelDiscover, total)
	defer r.finish()
	o.discovered = r.digest

	headers, err := header.Discover(ctx, r, strategy, o.normalizer)
	if err != nil {
		logParseError(log, err)
		return nil, r.n, err
	}

	log.Infow("Headers detected", "columns", headers.Len(), "records", r.n)
	return headers, r.n, nil
}

// WriteBody runs the projection pass: the header line, then one row per
// record. Rows already written stay written if the pass fails.
func (o *Orchestrator) WriteBody(ctx context.Context, headers *header.Set, w RowWriter, total int64) (written, withExtras int64, err error) {
	log := o.logger.WithPass("write")
	log.Infow(LabelWrite, "columns", headers.Len())

	if err := w.WriteHeader(headers.Names()); err != nil {
		return 0, 0, err
	}

	stream, err := o.src.Open(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer stream.Close()

	r := o.track(stream, LabelWrite, total)
	o.written = r.digest
	p := projector.New(headers, o.normalizer)
	runErr := p.Run(ctx, r, w)
	r.finish()
	flushErr := w.Flush()

	if p.RowsWithExtras() > 0 {
		log.Debugw("Columns outside the header set were dropped", "rows", p.RowsWithExtras())
	}

	if runErr != nil {
		logParseError(log, runErr)
		return p.Rows(), p.RowsWithExtras(), runErr
	}
	return p.Rows(), p.RowsWithExtras(), flushErr
}

// logParseError records where a malformed record stopped a pass.
func logParseError(log *logger.Logger, err error) {
	var perr *source.ParseError
	if errors.As(err, &perr) {
		log.WithRecord(perr.Record).Debugw("Malformed record", "error", perr.Err)
	}
}

func (o *Orchestrator) track(stream source.Stream, label string, total int64) *tickingReader {
	r := &tickingReader{stream: stream, sink: o.opts.Progress, digest: o.verifier.NewDigest()}
	if r.sink != nil {
		r.sink.Start(label, total)
	}
	return r
}

// tickingReader counts records, feeds the pass digest and ticks the
// progress sink for each one.
type tickingReader struct {
	stream source.Stream
	sink   ProgressSink
	digest *verifier.Digest
	n      int64
	done   bool
}

func (r *tickingReader) Next(ctx context.Context) (*record.Object, error) {
	rec, err := r.stream.Next(ctx)
	if err != nil {
		return nil, err
	}
	r.n++
	r.digest.Add(rec)
	if r.sink != nil {
		r.sink.Tick()
	}
	return rec, nil
}

func (r *tickingReader) finish() {
	if r.sink != nil && !r.done {
		r.sink.Finish()
	}
	r.done = true
}
