package cpu

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vktec/seedfinder"
)

func TestAggregatorPushOnce(t *testing.T) {
	agg := NewAggregator()
	res := seedfinder.CandidateResult{Seed: 42, Matched: 3, Width: seedfinder.Width48}
	assert.True(t, agg.Push(res))
	assert.False(t, agg.Push(res))
	assert.Equal(t, 1, agg.Len())
}

func TestAggregatorSnapshotSorted(t *testing.T) {
	agg := NewAggregator()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 100; i > 0; i-- {
				agg.Push(seedfinder.CandidateResult{Seed: seedfinder.Seed(i*4 + w)})
			}
		}()
	}
	wg.Wait()

	snap := agg.Snapshot()
	require.Len(t, snap, 400)
	for i := 1; i < len(snap); i++ {
		assert.Less(t, snap[i-1].Seed, snap[i].Seed)
	}
}

func TestAggregatorConcurrentOverlappingPush(t *testing.T) {
	const workers, perWorker, stride = 8, 1000, 100
	agg := NewAggregator()
	var (
		wg    sync.WaitGroup
		added atomic.Int64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if agg.Push(seedfinder.CandidateResult{Seed: seedfinder.Seed(w*stride + i)}) {
					added.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	distinct := (workers-1)*stride + perWorker
	assert.Equal(t, int64(distinct), added.Load())
	assert.Equal(t, distinct, agg.Len())
	assert.Len(t, agg.Snapshot(), distinct)
}

func TestAggregatorStages(t *testing.T) {
	agg := NewAggregator()
	agg.BeginStage(100)
	assert.Equal(t, 0.0, agg.Progress())
	agg.AddScanned(25)
	assert.Equal(t, 0.25, agg.Progress())
	agg.Push(seedfinder.CandidateResult{Seed: 1})

	agg.BeginStage(0)
	assert.Equal(t, 1.0, agg.Progress())
	assert.Zero(t, agg.Len())
	assert.Zero(t, agg.Scanned())
}

func TestAggregatorCancel(t *testing.T) {
	agg := NewAggregator()
	assert.False(t, agg.Cancelled())
	select {
	case <-agg.Done():
		t.Fatal("done before cancel")
	default:
	}

	agg.Cancel()
	agg.Cancel()
	assert.True(t, agg.Cancelled())
	<-agg.Done()

	agg.BeginStage(10)
	assert.True(t, agg.Cancelled())
}
