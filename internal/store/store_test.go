package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"solutions", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func record(id, topic string, failed bool) *SolutionRecord {
	return &SolutionRecord{
		ID:         id,
		Problem:    "problem " + id,
		Normalized: "problem " + id,
		Topic:      topic,
		Answer:     "42",
		Failed:     failed,
		SolveTime:  1500 * time.Microsecond,
		Payload:    []byte(`{"problem":"` + id + `"}`),
	}
}

func TestHistoryAppendAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	rec := record("a1", "algebra", false)
	require.NoError(t, repo.Append(ctx, rec))
	assert.Equal(t, int64(1), rec.Sequence)
	assert.Equal(t, SourceText, rec.Source)

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "algebra", got.Topic)
	assert.Equal(t, "42", got.Answer)
	assert.False(t, got.Failed)
	assert.Equal(t, 1500*time.Microsecond, got.SolveTime)
	assert.JSONEq(t, `{"problem":"a1"}`, string(got.Payload))
	assert.Equal(t, rec.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHistoryAppendRequiresID(t *testing.T) {
	s := openTestStore(t)
	err := s.HistoryRepo().Append(context.Background(), &SolutionRecord{})
	assert.Error(t, err)
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, record(fmt.Sprintf("r%d", i), "arithmetic", false)))
	}

	recs, err := repo.Recent(ctx, QueryOpts{Limit: 3})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "r4", recs[0].ID)
	assert.Equal(t, "r2", recs[2].ID)

	recs, err = repo.Recent(ctx, QueryOpts{After: 3})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r4", recs[0].ID)
}

func TestHistoryPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Append(ctx, record(fmt.Sprintf("p%d", i), "geometry", false)))
	}

	removed, err := repo.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	recs, err := repo.Recent(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "p6", recs[0].ID)

	removed, err = repo.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestHistoryTopicCountsAndSummary(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, record("t1", "algebra", false)))
	require.NoError(t, repo.Append(ctx, record("t2", "algebra", true)))
	require.NoError(t, repo.Append(ctx, record("t3", "algebra", false)))
	img := record("t4", "statistics", false)
	img.Source = SourceImage
	img.SolveTime = 3500 * time.Microsecond
	require.NoError(t, repo.Append(ctx, img))

	counts, err := repo.TopicCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, TopicCount{Topic: "algebra", Solved: 2, Failed: 1}, counts[0])
	assert.Equal(t, TopicCount{Topic: "statistics", Solved: 1}, counts[1])

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Images)
	// (1500 + 1500 + 3500) / 3 microseconds over successful solves.
	assert.InDelta(t, 2166, sum.AvgSolveTime.Microseconds(), 1)
}

func TestHistorySummaryEmpty(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.HistoryRepo().Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.AvgSolveTime)
}

func TestHistoryClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, record("c1", "algebra", false)))
	require.NoError(t, repo.Clear(ctx))

	recs, err := repo.Recent(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "extract", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "extract", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "timeout"},
		{Provider: "openai", Model: "gpt-4o", Purpose: "extract", InputTokens: 10, OutputTokens: 5, LatencyMs: 200, Success: true, RequestBody: "{}", ResponseBody: "{}"},
	}
	for _, ev := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, ev))
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "openai", got[0].Provider)
	assert.Equal(t, "timeout", got[1].ErrorMessage)

	one, err := repo.GetLLMEvent(ctx, got[0].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "gpt-4o", one.Model)
	assert.Equal(t, "{}", one.RequestBody)
	assert.True(t, one.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 1)
	assert.Equal(t, 3, byPurpose[0].Calls)
	assert.Equal(t, 160, byPurpose[0].InputTokens)
	assert.InDelta(t, 200.0, byPurpose[0].AvgLatencyMs, 0.001)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Calls: 2, InputTokens: 150, OutputTokens: 30}, byModel[0])
}

func TestSequenceSharedAcrossRepos(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HistoryRepo().Append(ctx, record("s1", "algebra", false)))
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "p", Model: "m", Purpose: "extract"}))
	rec := record("s2", "algebra", false)
	require.NoError(t, s.HistoryRepo().Append(ctx, rec))
	assert.Equal(t, int64(3), rec.Sequence)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HistoryRepo().Append(ctx, record("x1", "algebra", false)))
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "p", Model: "m", Purpose: "extract"}))
	require.NoError(t, s.Reset(ctx))

	recs, err := s.HistoryRepo().Recent(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	evs, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	p := dir + "/nested/deeper/yechim.db"
	require.NoError(t, EnsureDir(p))
	assert.DirExists(t, dir+"/nested/deeper")
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("YECHIM_STORE_PATH", dir+"/custom/db.sqlite")
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/custom/db.sqlite", p)

	t.Setenv("YECHIM_STORE_PATH", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/yechim/yechim.db", p)
}
