// Package cpu reconstructs world seeds by brute force on the CPU. The seed
// space is split into contiguous ranges, one per worker, and every candidate
// is tested against the compiled observations until the first mismatch.
package cpu

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/oracle"
)

// PollInterval is the number of candidates a worker tests between checks for
// cancellation.
const PollInterval = 1 << 12

const tracerName = "github.com/vktec/seedfinder/cpu"

type Searcher struct {
	log    logrus.FieldLogger
	tracer trace.Tracer
}

type Option func(*Searcher)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Searcher) { s.log = log }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Searcher) { s.tracer = tp.Tracer(tracerName) }
}

func NewSearcher(opts ...Option) *Searcher {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	s := &Searcher{log: quiet, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ seedfinder.Searcher = (*Searcher)(nil)

// Search runs a search to completion or cancellation. Cancelling ctx is not an
// error: the report carries whatever was found with Cancelled set.
func (s *Searcher) Search(ctx context.Context, set *seedfinder.ObservationSet, cfg seedfinder.Config) (*seedfinder.Report, error) {
	run, err := s.Start(ctx, set, cfg)
	if err != nil {
		return nil, err
	}
	return run.Wait(), nil
}

// Start validates the request and begins the search in the background.
// Configuration problems are reported here, before any work starts.
func (s *Searcher) Start(ctx context.Context, set *seedfinder.ObservationSet, cfg seedfinder.Config) (*Run, error) {
	p, err := newPlan(set, cfg)
	if err != nil {
		return nil, err
	}
	run := newRun(s, p, cfg)
	go run.execute(ctx)
	return run, nil
}

type plan struct {
	width     seedfinder.BitWidth
	workers   int
	scan      seedfinder.SearchRange
	extension seedfinder.ExtensionMode
	twoStage  bool

	legacy, full []oracle.Check
	nLegacy      int
	nTotal       int
}

func newPlan(set *seedfinder.ObservationSet, cfg seedfinder.Config) (*plan, error) {
	if set == nil {
		return nil, seedfinder.ConfigErrorf("observations", "no observation set")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, seedfinder.ConfigErrorf("workers", "need at least one worker, got %d", cfg.Workers)
	}

	required := set.RequiredBitWidth()
	width := cfg.BitWidth
	if width == 0 {
		width = required
	}
	if !width.Valid() {
		return nil, seedfinder.ConfigErrorf("bit_width", "unsupported bit width %d", width)
	}
	if width < required {
		return nil, seedfinder.ConfigErrorf("bit_width", "a %d-bit search cannot decide %d-bit observations", width, required)
	}
	switch cfg.Extension {
	case seedfinder.ExtendHighBits, seedfinder.ExtendNextLong:
	default:
		return nil, seedfinder.ConfigErrorf("extension", "unknown extension mode %s", cfg.Extension)
	}

	legacy, full := set.Split()
	p := &plan{
		width:     width,
		workers:   cfg.Workers,
		extension: cfg.Extension,
		legacy:    oracle.CompileAll(legacy),
		full:      oracle.CompileAll(full),
		nLegacy:   len(legacy),
		nTotal:    set.Len(),
	}

	legacyDomain := seedfinder.SearchRange{Lo: 0, Hi: seedfinder.Width48.Size()}
	switch {
	case width == seedfinder.Width48:
		p.scan = legacyDomain
		if cfg.Range != nil {
			p.scan = *cfg.Range
		}
	case len(legacy) > 0:
		p.twoStage = true
		p.scan = legacyDomain
		if cfg.Range != nil {
			if cfg.Range.Hi > legacyDomain.Hi {
				return nil, seedfinder.ConfigErrorf("range", "%s lies outside the 48-bit space of the first stage", cfg.Range)
			}
			p.scan = *cfg.Range
		}
	default:
		if cfg.Range == nil {
			return nil, seedfinder.ConfigErrorf("range", "a search with only 64-bit observations needs an explicit range")
		}
		p.scan = *cfg.Range
	}
	if p.scan.Len() == 0 {
		return nil, seedfinder.ConfigErrorf("range", "%s is empty", p.scan)
	}
	return p, nil
}

// firstStage is the stage that scans p.scan.
func (p *plan) firstStage() seedfinder.Stage {
	if p.twoStage || p.width == seedfinder.Width48 {
		return seedfinder.StageLegacy
	}
	return seedfinder.StageFull
}

// Run is one search in progress.
type Run struct {
	id       string
	plan     *plan
	agg      *Aggregator
	log      logrus.FieldLogger
	tracer   trace.Tracer
	progress *progressReporter

	state  stateBox
	start  time.Time
	done   chan struct{}
	report *seedfinder.Report
}

func (r *Run) ID() string {
	return r.id
}

func (r *Run) State() State {
	return r.state.load()
}

func (r *Run) Aggregator() *Aggregator {
	return r.agg
}

// Cancel stops the run at the workers' next poll.
func (r *Run) Cancel() {
	r.agg.Cancel()
}

// Done is closed when the run has finished and its report is available.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its report.
func (r *Run) Wait() *seedfinder.Report {
	<-r.done
	return r.report
}
