// Package tracker keeps the running statistics and recent history of a
// solving session. The solver itself is stateless; whoever drives it (the
// CLI, the TUI, the HTTP server) owns a Tracker.
package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/yechim/internal/solver"
)

// DefaultHistoryLimit is how many entries a Tracker keeps by default.
const DefaultHistoryLimit = 50

// Entry is one solved problem in the history.
type Entry struct {
	ID       string          `json:"id"`
	Problem  string          `json:"problem"`
	Topic    solver.Topic    `json:"type"`
	Answer   string          `json:"answer"`
	Failed   bool            `json:"failed"`
	Solution solver.Solution `json:"solution"`
	SolvedAt time.Time       `json:"solved_at"`
}

// Stats are the aggregate counters of a session.
type Stats struct {
	Solved int `json:"solved"`
	Failed int `json:"failed"`

	// Images counts problems that arrived as photos.
	Images int `json:"images"`

	// AvgSolveTime is the running mean over every recorded solve.
	AvgSolveTime time.Duration `json:"avg_solve_time"`

	// Accuracy is the percentage of solves that did not fail.
	Accuracy float64 `json:"accuracy"`

	ByTopic map[solver.Topic]int `json:"by_topic"`
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	limit   int
	stats   Stats
	history []Entry // newest first
	newID   func() string
}

// New returns a Tracker keeping at most limit history entries. A
// non-positive limit means DefaultHistoryLimit.
func New(limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Tracker{
		limit: limit,
		stats: Stats{ByTopic: make(map[solver.Topic]int)},
		newID: func() string { return uuid.NewString() },
	}
}

// Record folds sol into the statistics and pushes it onto the history.
func (t *Tracker) Record(sol solver.Solution) Entry {
	entry := Entry{
		ID:       t.newID(),
		Problem:  sol.Problem,
		Topic:    sol.Topic,
		Failed:   sol.Failed(),
		Solution: sol,
		SolvedAt: sol.Timestamp,
	}
	if sol.Answer != nil {
		entry.Answer = sol.Answer.String()
	}
	if entry.SolvedAt.IsZero() {
		entry.SolvedAt = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.count(sol.Topic, sol.Failed(), sol.SolveTime)
	t.push(entry)
	return entry
}

// count updates the counters for one solve. Callers hold t.mu.
func (t *Tracker) count(topic solver.Topic, failed bool, took time.Duration) {
	t.stats.Solved++
	if failed {
		t.stats.Failed++
	}
	n := time.Duration(t.stats.Solved)
	t.stats.AvgSolveTime = (t.stats.AvgSolveTime*(n-1) + took) / n
	t.stats.Accuracy = float64(t.stats.Solved-t.stats.Failed) / float64(t.stats.Solved) * 100
	t.stats.ByTopic[topic]++
}

func (t *Tracker) push(e Entry) {
	t.history = append([]Entry{e}, t.history...)
	if len(t.history) > t.limit {
		t.history = t.history[:t.limit]
	}
}

// RecordImage counts a problem that was read from a photo.
func (t *Tracker) RecordImage() {
	t.mu.Lock()
	t.stats.Images++
	t.mu.Unlock()
}

// Stats returns a copy of the current counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.stats
	out.ByTopic = make(map[solver.Topic]int, len(t.stats.ByTopic))
	for k, v := range t.stats.ByTopic {
		out.ByTopic[k] = v
	}
	return out
}

// History returns up to n entries, newest first. n <= 0 returns all.
func (t *Tracker) History(n int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 || n > len(t.history) {
		n = len(t.history)
	}
	out := make([]Entry, n)
	copy(out, t.history[:n])
	return out
}

// Recall finds a history entry by ID.
func (t *Tracker) Recall(id string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.history {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Restore seeds the history from previously persisted entries, given
// newest first, and folds them into the statistics.
func (t *Tracker) Restore(entries []Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		t.count(e.Topic, e.Failed, e.Solution.SolveTime)
		t.push(e)
	}
}

// Clear drops history and statistics.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = nil
	t.stats = Stats{ByTopic: make(map[solver.Topic]int)}
}

type exportDoc struct {
	ExportedAt time.Time `json:"exported_at"`
	Stats      Stats     `json:"stats"`
	History    []Entry   `json:"history"`
}

// Export writes the statistics and full history as indented JSON.
func (t *Tracker) Export(w io.Writer) error {
	doc := exportDoc{
		ExportedAt: time.Now().UTC(),
		Stats:      t.Stats(),
		History:    t.History(0),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}
