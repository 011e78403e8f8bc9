package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshot(words ...string) *Snapshot {
	analyses := phonetic.NewTokenizer(nil).SegmentAll(words)
	model := markov.Estimate(analyses)
	return &Snapshot{
		Run:        Run{Source: "corpus", Tolerance: markov.DefaultTolerance},
		Analyses:   analyses,
		Model:      model,
		Stationary: markov.StabilizeModel(model, markov.DefaultTolerance, markov.DefaultMaxIterations),
	}
}

func scenario() *Snapshot {
	return snapshot(
		"ب"+string(phonetic.Fatha)+"ب"+string(phonetic.Fathatan)+string(phonetic.Shadda),
		"ب"+string(phonetic.Kasra)+"ت"+string(phonetic.Sukun),
	)
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	want := scenario()
	want.Run.CaseCount = 272

	id, err := s.SaveRun(want)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.LoadRun(id)
	require.NoError(t, err)

	assert.Equal(t, id, got.Run.ID)
	assert.Equal(t, "corpus", got.Run.Source)
	assert.Equal(t, 2, got.Run.Words)
	assert.Equal(t, 6, got.Run.States)
	assert.Equal(t, 6, got.Run.Transitions)
	assert.Equal(t, 272, got.Run.CaseCount)
	assert.Equal(t, markov.DefaultTolerance, got.Run.Tolerance)
	assert.True(t, got.Run.Converged)
	assert.WithinDuration(t, time.Now(), got.Run.CreatedAt, time.Minute)

	assert.Equal(t, want.Model.States, got.Model.States)
	assert.Equal(t, want.Model.Matrix, got.Model.Matrix)
	assert.Equal(t, want.Model.Counts, got.Model.Counts)
	assert.Equal(t, want.Model.Totals, got.Model.Totals)
	assert.Equal(t, want.Model.TransitionCount, got.Model.TransitionCount)

	assert.Equal(t, want.Stationary.Iterations, got.Stationary.Iterations)
	assert.Equal(t, want.Stationary.Converged, got.Stationary.Converged)
	require.Equal(t, want.Stationary.States, got.Stationary.States)
	for i := range want.Stationary.States {
		assert.Equal(t, want.Stationary.Row(i), got.Stationary.Row(i))
	}

	assert.Equal(t, want.Analyses, got.Analyses)
}

func TestLoadRunKeepsNonZeroStationaryCells(t *testing.T) {
	s := openTestStore(t)

	// A self-loop decays slowly and leaves small non-zero cells behind.
	snap := snapshot("ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fatha))
	id, err := s.SaveRun(snap)
	require.NoError(t, err)

	got, err := s.LoadRun(id)
	require.NoError(t, err)
	for i := range snap.Stationary.States {
		assert.Equal(t, snap.Stationary.Row(i), got.Stationary.Row(i))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := s.SaveRun(scenario())
	require.NoError(t, err)
	second, err := s.SaveRun(snapshot("ت" + string(phonetic.Damma)))
	require.NoError(t, err)

	runs, err = s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 1, runs[0].Words)
}

func TestLatestRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LatestRun()
	assert.ErrorIs(t, err, ErrNoRuns)

	_, err = s.SaveRun(scenario())
	require.NoError(t, err)
	id, err := s.SaveRun(snapshot("ت" + string(phonetic.Damma)))
	require.NoError(t, err)

	snap, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, id, snap.Run.ID)
	assert.Equal(t, []string{phonetic.End, phonetic.Start, "ت" + string(phonetic.Damma)}, snap.Model.States)
}

func TestLoadRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadRun(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveEmptyRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveRun(snapshot())
	require.NoError(t, err)

	got, err := s.LoadRun(id)
	require.NoError(t, err)
	assert.Empty(t, got.Model.States)
	assert.Empty(t, got.Analyses)
	assert.Zero(t, got.Stationary.Size())
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SaveRun(scenario())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, id, snap.Run.ID)
}
