package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vktec/seedfinder"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, created time.Time, seeds ...seedfinder.Seed) *Record {
	rec := &Record{
		Report: seedfinder.Report{
			RunID: id,
			Stages: []seedfinder.StageReport{{
				Stage:     seedfinder.StageLegacy,
				Range:     seedfinder.SearchRange{Lo: 0, Hi: 1 << 20},
				Scanned:   1 << 20,
				Survivors: len(seeds),
				Elapsed:   3 * time.Second,
			}},
			Elapsed: 3 * time.Second,
		},
		Observations: "observations: []\n",
		Created:      created,
	}
	for _, s := range seeds {
		rec.Report.Results = append(rec.Report.Results, seedfinder.CandidateResult{Seed: s, Matched: 4, Width: seedfinder.Width48})
	}
	return rec
}

func TestSaveLoad(t *testing.T) {
	s := openMemory(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := record("6f1c0d2e-aaaa", created, 12345, 0xBA41_9D35_0DFE_8AF7)
	require.NoError(t, s.Save(rec))

	got, err := s.Load("6f1c0d2e-aaaa")
	require.NoError(t, err)
	assert.Equal(t, rec.Report, got.Report)
	assert.Equal(t, rec.Observations, got.Observations)
	assert.True(t, created.Equal(got.Created))

	byPrefix, err := s.Load("6f1c")
	require.NoError(t, err)
	assert.Equal(t, rec.Report.RunID, byPrefix.Report.RunID)
}

func TestLoadErrors(t *testing.T) {
	s := openMemory(t)
	now := time.Now()
	require.NoError(t, s.Save(record("abc-1", now)))
	require.NoError(t, s.Save(record("abc-2", now)))

	_, err := s.Load("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Load("abc")
	assert.ErrorContains(t, err, "ambiguous")

	assert.Error(t, s.Save(&Record{}), "records need a run ID")
}

func TestListAndDelete(t *testing.T) {
	s := openMemory(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(record("b", base.Add(time.Hour))))
	require.NoError(t, s.Save(record("a", base.Add(2*time.Hour))))
	require.NoError(t, s.Save(record("c", base)))

	recs, err := s.List()
	require.NoError(t, err)
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.Report.RunID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	require.NoError(t, s.Delete("b"))
	assert.ErrorIs(t, s.Delete("b"), ErrNotFound)
	recs, err = s.List()
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestDeleteByPrefix(t *testing.T) {
	s := openMemory(t)
	now := time.Now()
	require.NoError(t, s.Save(record("6f1c0d2e-aaaa", now)))
	require.NoError(t, s.Save(record("6f1c9999-bbbb", now)))
	require.NoError(t, s.Save(record("77", now)))
	require.NoError(t, s.Save(record("7", now)))

	assert.ErrorContains(t, s.Delete("6f1c"), "ambiguous")
	require.NoError(t, s.Delete("6f1c0"))
	_, err := s.Load("6f1c0d2e-aaaa")
	assert.ErrorIs(t, err, ErrNotFound)

	// an exact ID wins over longer IDs it prefixes
	require.NoError(t, s.Delete("7"))
	_, err = s.Load("77")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Delete("zz"), ErrNotFound)
	recs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSaveSetsCreated(t *testing.T) {
	s := openMemory(t)
	rec := record("x", time.Time{})
	require.NoError(t, s.Save(rec))
	assert.False(t, rec.Created.IsZero())
}
