package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPersistAndLoad(t *testing.T) {
	s := openStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	tr := New(3)
	problems := []string{"2 + 2", "x^2 - 5x + 6 = 0", "0x + 1 = 2", "area of circle with radius 5"}
	for i, p := range problems {
		source := store.SourceText
		if i == 1 {
			source = store.SourceImage
		}
		_, err := Persist(ctx, tr, repo, solver.Solve(p), source)
		require.NoError(t, err)
	}

	recs, err := repo.Recent(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 4, "the table keeps every solution")

	loaded, err := Load(ctx, repo, 3)
	require.NoError(t, err)

	hist := loaded.History(0)
	require.Len(t, hist, 3)
	assert.Equal(t, "area of circle with radius 5", hist[0].Problem)
	assert.Equal(t, "x^2 - 5x + 6 = 0", hist[2].Problem)
	assert.Equal(t, "x₁ = 3, x₂ = 2", hist[2].Solution.Answer.String())
	assert.True(t, hist[1].Failed)
	assert.ErrorIs(t, hist[1].Solution.Err, solver.ErrZeroCoefficient)

	st := loaded.Stats()
	assert.Equal(t, 3, st.Solved)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 1, st.Images)

	_, ok := loaded.Recall(hist[0].ID)
	assert.True(t, ok)
}

func TestPersistKeepsAllTimeTotals(t *testing.T) {
	s := openStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	tr := New(50)
	for i := 0; i < 60; i++ {
		_, err := Persist(ctx, tr, repo, solver.Solve(fmt.Sprintf("%d + 1", i)), store.SourceText)
		require.NoError(t, err)
	}

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, sum.Total)
	assert.Equal(t, tr.Stats().Solved, sum.Total)
	assert.Len(t, tr.History(0), 50)

	counts, err := repo.TopicCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, store.TopicCount{Topic: "arithmetic", Solved: 60}, counts[0])

	loaded, err := Load(ctx, repo, 50)
	require.NoError(t, err)
	assert.Len(t, loaded.History(0), 50)
}

func TestPersistWithoutRepo(t *testing.T) {
	tr := New(0)
	e, err := Persist(context.Background(), tr, nil, solver.Solve("1 + 1"), store.SourceImage)
	require.NoError(t, err)
	assert.Equal(t, "2", e.Answer)
	assert.Equal(t, 1, tr.Stats().Images)
}

func TestToRecordCarriesError(t *testing.T) {
	tr := New(0)
	e := tr.Record(solver.Solve("0x + 1 = 2"))
	rec, err := ToRecord(e, store.SourceText)
	require.NoError(t, err)
	assert.Equal(t, "zero_coefficient", rec.ErrorKind)
	assert.NotEmpty(t, rec.ErrorMessage)
	assert.Equal(t, "algebra", rec.Topic)
}
