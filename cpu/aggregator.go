package cpu

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vktec/seedfinder"
)

// Aggregator collects the survivors of one search stage. It is the only state
// workers share, and it also carries the run's cancellation flag.
type Aggregator struct {
	mu      sync.Mutex
	seen    map[seedfinder.Seed]struct{}
	results []seedfinder.CandidateResult

	scanned atomic.Uint64
	total   atomic.Uint64

	cancelled atomic.Bool
	done      chan struct{}
	cancelOne sync.Once
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		seen: make(map[seedfinder.Seed]struct{}),
		done: make(chan struct{}),
	}
}

// BeginStage drops collected results and progress and starts counting towards
// total candidates. Cancellation carries over.
func (a *Aggregator) BeginStage(total uint64) {
	a.mu.Lock()
	a.seen = make(map[seedfinder.Seed]struct{})
	a.results = nil
	a.mu.Unlock()
	a.scanned.Store(0)
	a.total.Store(total)
}

// Push records a survivor, exactly once per seed. It reports whether r was new.
func (a *Aggregator) Push(r seedfinder.CandidateResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.seen[r.Seed]; ok {
		return false
	}
	a.seen[r.Seed] = struct{}{}
	a.results = append(a.results, r)
	return true
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Snapshot returns the survivors so far in ascending seed order.
func (a *Aggregator) Snapshot() []seedfinder.CandidateResult {
	a.mu.Lock()
	results := slices.Clone(a.results)
	a.mu.Unlock()

	slices.SortFunc(results, func(x, y seedfinder.CandidateResult) int {
		switch {
		case x.OrderBefore(y):
			return -1
		case y.OrderBefore(x):
			return 1
		}
		return 0
	})
	return results
}

func (a *Aggregator) AddScanned(n uint64) {
	a.scanned.Add(n)
}

func (a *Aggregator) Scanned() uint64 {
	return a.scanned.Load()
}

func (a *Aggregator) Total() uint64 {
	return a.total.Load()
}

// Progress is the fraction of the current stage scanned, in [0, 1].
func (a *Aggregator) Progress() float64 {
	total := a.total.Load()
	if total == 0 {
		return 1
	}
	scanned := a.scanned.Load()
	if scanned >= total {
		return 1
	}
	return float64(scanned) / float64(total)
}

// Cancel asks every worker to stop at its next poll. Safe to call repeatedly.
func (a *Aggregator) Cancel() {
	a.cancelOne.Do(func() {
		a.cancelled.Store(true)
		close(a.done)
	})
}

func (a *Aggregator) Cancelled() bool {
	return a.cancelled.Load()
}

// Done is closed once Cancel has been called.
func (a *Aggregator) Done() <-chan struct{} {
	return a.done
}
