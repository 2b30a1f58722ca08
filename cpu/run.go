package cpu

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/javarand"
	"github.com/vktec/seedfinder/oracle"
	"github.com/vktec/seedfinder/util"
)

func newRun(s *Searcher, p *plan, cfg seedfinder.Config) *Run {
	id := uuid.NewString()
	agg := NewAggregator()
	log := s.log.WithField("run", id)
	return &Run{
		id:       id,
		plan:     p,
		agg:      agg,
		log:      log,
		tracer:   s.tracer,
		progress: newProgressReporter(cfg.OnProgress, cfg.ProgressInterval, agg, log),
		done:     make(chan struct{}),
	}
}

func (r *Run) execute(ctx context.Context) {
	defer close(r.done)
	searchesRunning.Inc()
	defer searchesRunning.Dec()

	stop := context.AfterFunc(ctx, r.agg.Cancel)
	defer stop()

	ctx, span := r.tracer.Start(ctx, "seedfinder.search", trace.WithAttributes(
		attribute.String("seedfinder.run_id", r.id),
		attribute.Int("seedfinder.workers", r.plan.workers),
		attribute.Int("seedfinder.bit_width", int(r.plan.width)),
		attribute.Int("seedfinder.observations", r.plan.nTotal),
	))
	defer span.End()

	r.start = time.Now()
	report := &seedfinder.Report{RunID: r.id}
	r.log.WithFields(logrus.Fields{
		"workers":      r.plan.workers,
		"bit_width":    r.plan.width,
		"range":        r.plan.scan,
		"observations": r.plan.nTotal,
	}).Info("Search started")

	complete := false
	if r.plan.twoStage {
		var survivors []seedfinder.CandidateResult
		survivors, complete = r.scanStage(ctx, report, seedfinder.StageLegacy, r.plan.legacy, seedfinder.Width48, r.plan.nLegacy)
		report.Legacy = survivors
		if complete {
			report.Results, complete = r.extendStage(ctx, report, survivors)
		}
	} else {
		checks := append(r.plan.legacy[:len(r.plan.legacy):len(r.plan.legacy)], r.plan.full...)
		report.Results, complete = r.scanStage(ctx, report, r.plan.firstStage(), checks, r.plan.width, r.plan.nTotal)
	}

	report.Cancelled = !complete
	report.Elapsed = time.Since(r.start)
	r.report = report

	span.SetAttributes(
		attribute.Int("seedfinder.results", len(report.Results)),
		attribute.Bool("seedfinder.cancelled", report.Cancelled),
	)
	fields := logrus.Fields{"results": len(report.Results), "elapsed": report.Elapsed}
	if report.Cancelled {
		r.state.store(Cancelled)
		r.log.WithFields(fields).Warn("Search cancelled, returning partial results")
	} else {
		r.state.store(Completed)
		span.SetStatus(codes.Ok, "")
		r.log.WithFields(fields).Info("Search finished")
	}
}

// scanStage tests every seed of the planned range against checks.
func (r *Run) scanStage(ctx context.Context, report *seedfinder.Report, stage seedfinder.Stage, checks []oracle.Check, width seedfinder.BitWidth, matched int) ([]seedfinder.CandidateResult, bool) {
	return r.runStage(ctx, report, stage, r.plan.scan, r.plan.scan.Len(), func(part seedfinder.SearchRange) {
		for lo := part.Lo; lo < part.Hi; {
			hi := part.Hi
			if hi-lo > PollInterval {
				hi = lo + PollInterval
			}
			for s := lo; s < hi; s++ {
				seed := seedfinder.Seed(s)
				if oracle.MatchAll(checks, seed) {
					r.push(stage, seedfinder.CandidateResult{Seed: seed, Matched: matched, Width: width})
				}
			}
			r.advance(stage, hi-lo)
			if r.agg.Cancelled() {
				return
			}
			lo = hi
		}
	})
}

// extendStage widens each 48-bit survivor to 64-bit candidates and tests
// them against the full-width checks. Partitions index into survivors.
func (r *Run) extendStage(ctx context.Context, report *seedfinder.Report, survivors []seedfinder.CandidateResult) ([]seedfinder.CandidateResult, bool) {
	const perSurvivor = 1 << 16
	indices := seedfinder.SearchRange{Lo: 0, Hi: uint64(len(survivors))}
	return r.runStage(ctx, report, seedfinder.StageExtend, indices, indices.Len()*perSurvivor, func(part seedfinder.SearchRange) {
		test := func(seed seedfinder.Seed) {
			if oracle.MatchAll(r.plan.full, seed) {
				r.push(seedfinder.StageExtend, seedfinder.CandidateResult{Seed: seed, Matched: r.plan.nTotal, Width: seedfinder.Width64})
			}
		}
		for i := part.Lo; i < part.Hi; i++ {
			low := survivors[i].Seed.Low48()
			switch r.plan.extension {
			case seedfinder.ExtendNextLong:
				for _, s := range javarand.ExtendLong48(low.Int64()) {
					test(seedfinder.Seed(s))
				}
			default:
				for hi := 0; hi < perSurvivor; hi++ {
					test(low.WithHigh16(uint16(hi)))
				}
			}
			r.advance(seedfinder.StageExtend, perSurvivor)
			if r.agg.Cancelled() {
				return
			}
		}
	})
}

// runStage partitions rng across the workers, waits for all of them, and
// returns the stage's sorted survivors and whether every candidate was tested.
func (r *Run) runStage(ctx context.Context, report *seedfinder.Report, stage seedfinder.Stage, rng seedfinder.SearchRange, total uint64, scan func(part seedfinder.SearchRange)) ([]seedfinder.CandidateResult, bool) {
	_, span := r.tracer.Start(ctx, "seedfinder.stage", trace.WithAttributes(
		attribute.String("seedfinder.stage", stage.String()),
		attribute.Int64("seedfinder.candidates", int64(min(total, 1<<62))),
	))
	defer span.End()

	log := r.log.WithField("stage", stage)
	start := time.Now()

	r.state.store(Partitioning)
	r.agg.BeginStage(total)
	parts := partition(rng, r.plan.workers)
	log.WithFields(logrus.Fields{"range": rng, "partitions": len(parts)}).Info("Stage started")

	r.state.store(Running)
	var g errgroup.Group
	for _, part := range parts {
		g.Go(func() error {
			scan(part)
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	stageDuration.WithLabelValues(stage.String()).Observe(elapsed.Seconds())
	r.progress.flush(stage)

	results := r.agg.Snapshot()
	scanned := r.agg.Scanned()
	report.Stages = append(report.Stages, seedfinder.StageReport{
		Stage:     stage,
		Range:     rng,
		Scanned:   scanned,
		Survivors: len(results),
		Elapsed:   elapsed,
	})
	span.SetAttributes(attribute.Int("seedfinder.survivors", len(results)))
	log.WithFields(logrus.Fields{"survivors": len(results), "elapsed": elapsed}).Info("Stage finished")
	return results, scanned == total
}

func (r *Run) push(stage seedfinder.Stage, res seedfinder.CandidateResult) {
	if r.agg.Push(res) {
		candidatesMatched.WithLabelValues(stage.String()).Inc()
	}
}

func (r *Run) advance(stage seedfinder.Stage, n uint64) {
	r.agg.AddScanned(n)
	candidatesScanned.WithLabelValues(stage.String()).Add(float64(n))
	r.progress.poll(stage)
}

// partition splits rng into n contiguous parts that cover it exactly.
func partition(rng seedfinder.SearchRange, n int) []seedfinder.SearchRange {
	parts := rng.Partition(n)
	next := rng.Lo
	for _, p := range parts {
		util.Assert(p.Lo == next, "partition leaves a gap")
		util.Assert(p.Len() > 0, "empty partition")
		next = p.Hi
	}
	util.Assert(next == max(rng.Lo, rng.Hi), "partition does not cover the range")
	return parts
}
