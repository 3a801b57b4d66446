package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
)

// ToRecord converts an entry into its persisted form.
func ToRecord(e Entry, source string) (*store.SolutionRecord, error) {
	payload, err := json.Marshal(e.Solution)
	if err != nil {
		return nil, fmt.Errorf("encode solution: %w", err)
	}
	rec := &store.SolutionRecord{
		ID:          e.ID,
		CreatedAt:   e.SolvedAt,
		Problem:     e.Problem,
		Normalized:  e.Solution.Normalized,
		Topic:       string(e.Topic),
		Answer:      e.Answer,
		Explanation: e.Solution.Explanation,
		Failed:      e.Failed,
		SolveTime:   e.Solution.SolveTime,
		Source:      source,
		Payload:     payload,
	}
	if e.Solution.Err != nil {
		rec.ErrorKind = string(e.Solution.ErrorKind())
		rec.ErrorMessage = e.Solution.Err.Error()
	}
	return rec, nil
}

// FromRecord rebuilds an entry from a persisted record.
func FromRecord(rec store.SolutionRecord) (Entry, error) {
	var sol solver.Solution
	if err := json.Unmarshal(rec.Payload, &sol); err != nil {
		return Entry{}, fmt.Errorf("decode solution %s: %w", rec.ID, err)
	}
	return Entry{
		ID:       rec.ID,
		Problem:  rec.Problem,
		Topic:    solver.Topic(rec.Topic),
		Answer:   rec.Answer,
		Failed:   rec.Failed,
		Solution: sol,
		SolvedAt: rec.CreatedAt,
	}, nil
}

// Load restores the newest limit solutions from repo into a fresh Tracker.
// Image counts are taken from the stored summary.
func Load(ctx context.Context, repo store.HistoryRepo, limit int) (*Tracker, error) {
	t := New(limit)
	recs, err := repo.Recent(ctx, store.QueryOpts{Limit: t.limit})
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		e, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	t.Restore(entries)

	sum, err := repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.stats.Images = sum.Images
	t.mu.Unlock()
	return t, nil
}

// Persist records sol in t and appends it to repo. The table keeps every
// solution; only the in-memory history is bounded.
func Persist(ctx context.Context, t *Tracker, repo store.HistoryRepo, sol solver.Solution, source string) (Entry, error) {
	e := t.Record(sol)
	if source == store.SourceImage {
		t.RecordImage()
	}
	if repo == nil {
		return e, nil
	}
	rec, err := ToRecord(e, source)
	if err != nil {
		return e, err
	}
	if err := repo.Append(ctx, rec); err != nil {
		return e, err
	}
	return e, nil
}
