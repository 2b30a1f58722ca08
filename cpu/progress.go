package cpu

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vktec/seedfinder"
)

// progressReporter turns worker polls into at most one progress event per
// interval. Callbacks are serialized.
type progressReporter struct {
	fn      func(seedfinder.Progress)
	limiter *rate.Limiter
	log     logrus.FieldLogger
	agg     *Aggregator
	start   time.Time

	mu sync.Mutex
}

func newProgressReporter(fn func(seedfinder.Progress), interval time.Duration, agg *Aggregator, log logrus.FieldLogger) *progressReporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &progressReporter{
		fn:      fn,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     log,
		agg:     agg,
		start:   time.Now(),
	}
}

// poll emits an event if the interval has elapsed since the last one.
func (p *progressReporter) poll(stage seedfinder.Stage) {
	if !p.limiter.Allow() {
		return
	}
	p.emit(stage)
}

// flush emits an event unconditionally, used at stage boundaries.
func (p *progressReporter) flush(stage seedfinder.Stage) {
	p.emit(stage)
}

func (p *progressReporter) emit(stage seedfinder.Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ev := seedfinder.Progress{
		Stage:    stage,
		Fraction: p.agg.Progress(),
		Scanned:  p.agg.Scanned(),
		Total:    p.agg.Total(),
		Elapsed:  time.Since(p.start),
	}
	p.log.WithFields(logrus.Fields{
		"stage":    stage,
		"progress": ev.Fraction,
		"scanned":  ev.Scanned,
		"found":    p.agg.Len(),
	}).Debug("Search progress")

	if p.fn != nil {
		p.fn(ev)
	}
}
