package cpu

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/oracle"
)

// A nextLong() seed: new Random(42).nextLong().
const worldSeed = seedfinder.Seed(0xBA41_9D35_0DFE_8AF7)

func mustSet(t testing.TB, obs ...seedfinder.Observation) *seedfinder.ObservationSet {
	t.Helper()
	set, err := seedfinder.NewObservationSet(obs...)
	require.NoError(t, err)
	return set
}

// slimeGrid records the slime chunks of seed over an n*n area at the origin.
func slimeGrid(seed seedfinder.Seed, n int32) []seedfinder.Observation {
	var obs []seedfinder.Observation
	for z := int32(0); z < n; z++ {
		for x := int32(0); x < n; x++ {
			loc := seedfinder.Chunk(x, z)
			obs = append(obs, seedfinder.Observation{
				Kind:    seedfinder.SlimeChunk,
				Locator: loc,
				Value:   oracle.Test(seedfinder.SlimeChunk, seed, loc),
			})
		}
	}
	return obs
}

// biomeGrid records the biomes of seed at blocks 4096 apart over [-r, r]^2.
func biomeGrid(seed seedfinder.Seed, r int32) []seedfinder.Observation {
	var obs []seedfinder.Observation
	for z := -r; z <= r; z++ {
		for x := -r; x <= r; x++ {
			loc := seedfinder.Biome(x<<12, z<<12)
			obs = append(obs, seedfinder.Observation{
				Kind:    seedfinder.BiomeAt,
				Locator: loc,
				Value:   oracle.Test(seedfinder.BiomeAt, seed, loc),
			})
		}
	}
	return obs
}

func linearScan(set *seedfinder.ObservationSet, rng seedfinder.SearchRange) []seedfinder.Seed {
	var seeds []seedfinder.Seed
	for s := rng.Lo; s < rng.Hi; s++ {
		ok := true
		for o := range set.Iter() {
			if !oracle.Matches(o, seedfinder.Seed(s)) {
				ok = false
				break
			}
		}
		if ok {
			seeds = append(seeds, seedfinder.Seed(s))
		}
	}
	return seeds
}

func search(t testing.TB, set *seedfinder.ObservationSet, cfg seedfinder.Config) *seedfinder.Report {
	t.Helper()
	report, err := NewSearcher().Search(context.Background(), set, cfg)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func TestThreeSlimeChunks(t *testing.T) {
	set := mustSet(t,
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 0), Value: seedfinder.Present},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(1, 0), Value: seedfinder.Absent},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 1), Value: seedfinder.Present},
	)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 16}
	report := search(t, set, seedfinder.Config{BitWidth: seedfinder.Width48, Workers: 4, Range: &rng})

	want := linearScan(set, rng)
	require.NotEmpty(t, want)
	assert.Equal(t, want, report.Seeds())
	assert.False(t, report.Cancelled)
	for _, res := range report.Results {
		assert.Equal(t, 3, res.Matched)
		assert.Equal(t, seedfinder.Width48, res.Width)
	}
	require.Len(t, report.Stages, 1)
	assert.Equal(t, seedfinder.StageLegacy, report.Stages[0].Stage)
	assert.Equal(t, rng.Len(), report.Stages[0].Scanned)
	assert.Equal(t, len(want), report.Stages[0].Survivors)
}

func TestWorkerCountDoesNotChangeResults(t *testing.T) {
	set := mustSet(t,
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(3, -2), Value: seedfinder.Present},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(-7, 5), Value: seedfinder.Present},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 0), Value: seedfinder.Absent},
	)
	rng := seedfinder.SearchRange{Lo: 1 << 40, Hi: 1<<40 + 1<<18}
	want := search(t, set, seedfinder.Config{Workers: 1, Range: &rng}).Results
	require.NotEmpty(t, want)

	for _, workers := range []int{2, 3, 7, 16} {
		got := search(t, set, seedfinder.Config{Workers: workers, Range: &rng}).Results
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestFindsSeedFromItsOwnObservations(t *testing.T) {
	const seed = seedfinder.Seed(0x5_1234)
	set := mustSet(t, slimeGrid(seed, 8)...)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 20}
	report := search(t, set, seedfinder.Config{Workers: 4, Range: &rng})
	assert.Contains(t, report.Seeds(), seed)
}

func TestLegacySearchCannotTellUpperBitsApart(t *testing.T) {
	const (
		a = seedfinder.Seed(0x0000_1234_5678_9ABC)
		b = seedfinder.Seed(0x00FF_1234_5678_9ABC)
	)
	set := mustSet(t, slimeGrid(a, 6)...)
	for _, seed := range []seedfinder.Seed{a, b} {
		rng := seedfinder.SearchRange{Lo: uint64(seed), Hi: uint64(seed) + 1}
		report := search(t, set, seedfinder.Config{BitWidth: seedfinder.Width48, Workers: 1, Range: &rng})
		require.Equal(t, []seedfinder.Seed{seed}, report.Seeds())
		assert.True(t, report.Results[0].Covers(a))
		assert.True(t, report.Results[0].Covers(b))
	}
}

func TestCancelReturnsPartialResults(t *testing.T) {
	set := mustSet(t,
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 0), Value: seedfinder.Present},
	)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 40}
	run, err := NewSearcher().Start(context.Background(), set, seedfinder.Config{Workers: 4, Range: &rng})
	require.NoError(t, err)
	run.Cancel()
	run.Cancel()

	report := run.Wait()
	assert.True(t, report.Cancelled)
	assert.Equal(t, Cancelled, run.State())
	assert.True(t, run.Aggregator().Cancelled())
	require.Len(t, report.Stages, 1)
	assert.Less(t, report.Stages[0].Scanned, rng.Len())
	for _, res := range report.Results {
		assert.Less(t, uint64(res.Seed), rng.Hi)
		assert.True(t, oracle.IsSlimeChunk(res.Seed, 0, 0))
	}
}

func TestCancelledResultsAreSubsetOfFullRun(t *testing.T) {
	set := mustSet(t,
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(1, 1), Value: seedfinder.Present},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(-4, 2), Value: seedfinder.Present},
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(9, -3), Value: seedfinder.Present},
	)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 24}
	full := search(t, set, seedfinder.Config{Workers: 4, Range: &rng})
	require.False(t, full.Cancelled)
	require.NotEmpty(t, full.Results)

	quarter := make(chan struct{})
	var once sync.Once
	run, err := NewSearcher().Start(context.Background(), set, seedfinder.Config{
		Workers:          4,
		Range:            &rng,
		ProgressInterval: time.Millisecond,
		OnProgress: func(p seedfinder.Progress) {
			if p.Fraction >= 0.25 {
				once.Do(func() { close(quarter) })
			}
		},
	})
	require.NoError(t, err)
	select {
	case <-quarter:
	case <-run.Done():
	}
	run.Cancel()
	partial := run.Wait()

	if partial.Cancelled {
		assert.Less(t, partial.Stages[0].Scanned, rng.Len())
	}
	assert.LessOrEqual(t, len(partial.Results), len(full.Results))
	want := make(map[seedfinder.Seed]seedfinder.CandidateResult, len(full.Results))
	for _, res := range full.Results {
		want[res.Seed] = res
	}
	for _, res := range partial.Results {
		assert.Equal(t, want[res.Seed], res, "seed %d", res.Seed)
	}
}

func TestCancelDuringLegacyStage(t *testing.T) {
	slime := seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 0), Value: seedfinder.Present}
	set := mustSet(t, append(biomeGrid(worldSeed, 1), slime)...)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 40}
	run, err := NewSearcher().Start(context.Background(), set, seedfinder.Config{Workers: 4, Range: &rng})
	require.NoError(t, err)
	run.Cancel()
	report := run.Wait()

	assert.True(t, report.Cancelled)
	assert.Empty(t, report.Results)
	require.Len(t, report.Stages, 1)
	assert.Equal(t, seedfinder.StageLegacy, report.Stages[0].Stage)
	assert.Less(t, report.Stages[0].Scanned, rng.Len())
	for _, res := range report.Legacy {
		assert.Equal(t, seedfinder.Width48, res.Width)
		assert.Equal(t, 1, res.Matched)
		assert.True(t, oracle.IsSlimeChunk(res.Seed, 0, 0))
	}
}

func TestContextCancellation(t *testing.T) {
	set := mustSet(t,
		seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(2, 2), Value: seedfinder.Present},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewSearcher().Search(ctx, set, seedfinder.Config{Workers: 2})
	require.NoError(t, err)
	assert.True(t, report.Cancelled)
}

func TestProgressEvents(t *testing.T) {
	set := mustSet(t, slimeGrid(0, 2)...)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 18}

	var (
		mu     sync.Mutex
		events []seedfinder.Progress
	)
	report := search(t, set, seedfinder.Config{
		Workers: 4,
		Range:   &rng,
		OnProgress: func(p seedfinder.Progress) {
			mu.Lock()
			events = append(events, p)
			mu.Unlock()
		},
	})
	assert.False(t, report.Cancelled)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, seedfinder.StageLegacy, last.Stage)
	assert.Equal(t, 1.0, last.Fraction)
	assert.Equal(t, rng.Len(), last.Scanned)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Scanned, events[i].Scanned)
	}
}

func TestTwoStageRecoversFullSeed(t *testing.T) {
	low := uint64(worldSeed.Low48())
	obs := append(slimeGrid(worldSeed, 10), biomeGrid(worldSeed, 6)...)
	set := mustSet(t, obs...)
	rng := seedfinder.SearchRange{Lo: low - 1<<12, Hi: low + 1<<12}

	for _, mode := range []seedfinder.ExtensionMode{seedfinder.ExtendHighBits, seedfinder.ExtendNextLong} {
		t.Run(mode.String(), func(t *testing.T) {
			report := search(t, set, seedfinder.Config{Workers: 4, Range: &rng, Extension: mode})

			assert.Equal(t, []seedfinder.Seed{worldSeed}, report.Seeds())
			assert.Equal(t, set.Len(), report.Results[0].Matched)
			assert.Equal(t, seedfinder.Width64, report.Results[0].Width)

			require.NotEmpty(t, report.Legacy)
			var legacy []seedfinder.Seed
			for _, res := range report.Legacy {
				assert.Equal(t, seedfinder.Width48, res.Width)
				legacy = append(legacy, res.Seed)
			}
			assert.Contains(t, legacy, worldSeed.Low48())

			require.Len(t, report.Stages, 2)
			assert.Equal(t, seedfinder.StageLegacy, report.Stages[0].Stage)
			assert.Equal(t, seedfinder.StageExtend, report.Stages[1].Stage)
			assert.Equal(t, uint64(len(report.Legacy))<<16, report.Stages[1].Scanned)
		})
	}
}

func TestFullWidthOnlySearch(t *testing.T) {
	set := mustSet(t, biomeGrid(worldSeed, 6)...)
	rng := seedfinder.SearchRange{Lo: uint64(worldSeed) - 1000, Hi: uint64(worldSeed) + 1000}
	report := search(t, set, seedfinder.Config{Workers: 3, Range: &rng})

	assert.Equal(t, []seedfinder.Seed{worldSeed}, report.Seeds())
	require.Len(t, report.Stages, 1)
	assert.Equal(t, seedfinder.StageFull, report.Stages[0].Stage)
}

func TestRunState(t *testing.T) {
	set := mustSet(t, slimeGrid(7, 3)...)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 12}
	run, err := NewSearcher().Start(context.Background(), set, seedfinder.Config{Workers: 2, Range: &rng})
	require.NoError(t, err)
	<-run.Done()
	assert.Equal(t, Completed, run.State())
	assert.True(t, run.State().Finished())
	assert.Equal(t, run.ID(), run.Wait().RunID)
}

func TestConfigurationErrors(t *testing.T) {
	slime := seedfinder.Observation{Kind: seedfinder.SlimeChunk, Locator: seedfinder.Chunk(0, 0), Value: seedfinder.Present}
	land := seedfinder.Observation{Kind: seedfinder.BiomeAt, Locator: seedfinder.Biome(4096, 0), Value: seedfinder.Present}
	small := seedfinder.SearchRange{Lo: 0, Hi: 10}
	beyond48 := seedfinder.SearchRange{Lo: 0, Hi: 1<<48 + 1}
	empty := seedfinder.SearchRange{Lo: 5, Hi: 5}

	tests := []struct {
		name  string
		set   *seedfinder.ObservationSet
		cfg   seedfinder.Config
		field string
	}{
		{"nil set", nil, seedfinder.Config{Workers: 1}, "observations"},
		{"empty set", mustSet(t), seedfinder.Config{Workers: 1}, "observations"},
		{"no workers", mustSet(t, slime), seedfinder.Config{Workers: 0}, "workers"},
		{"negative workers", mustSet(t, slime), seedfinder.Config{Workers: -2}, "workers"},
		{"bad width", mustSet(t, slime), seedfinder.Config{Workers: 1, BitWidth: 32}, "bit_width"},
		{"48-bit with full-width kind", mustSet(t, slime, land), seedfinder.Config{Workers: 1, BitWidth: seedfinder.Width48}, "bit_width"},
		{"full-width without range", mustSet(t, land), seedfinder.Config{Workers: 1}, "range"},
		{"first stage beyond 48 bits", mustSet(t, slime, land), seedfinder.Config{Workers: 1, Range: &beyond48}, "range"},
		{"empty range", mustSet(t, slime), seedfinder.Config{Workers: 1, Range: &empty}, "range"},
		{"bad extension", mustSet(t, slime, land), seedfinder.Config{Workers: 1, Range: &small, Extension: 9}, "extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewSearcher().Search(context.Background(), tt.set, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, seedfinder.ErrConfiguration)

			var cerr *seedfinder.ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestPartitionCoversRange(t *testing.T) {
	rng := seedfinder.SearchRange{Lo: 17, Hi: 17 + 1000}
	parts := partition(rng, 7)
	require.Len(t, parts, 7)
	var total uint64
	for _, p := range parts {
		total += p.Len()
	}
	assert.Equal(t, rng.Len(), total)
	assert.Equal(t, rng.Lo, parts[0].Lo)
	assert.Equal(t, rng.Hi, parts[len(parts)-1].Hi)

	assert.Len(t, partition(seedfinder.SearchRange{Lo: 0, Hi: 3}, 8), 3)
	assert.Empty(t, partition(seedfinder.SearchRange{}, 4))
}

func BenchmarkSearchSlime(b *testing.B) {
	set := mustSet(b, slimeGrid(12345, 4)...)
	rng := seedfinder.SearchRange{Lo: 0, Hi: 1 << 20}
	cfg := seedfinder.Config{Workers: runtime.GOMAXPROCS(0), Range: &rng}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		search(b, set, cfg)
	}
}
