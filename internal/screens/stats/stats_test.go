package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

func TestSessionRowsOrder(t *testing.T) {
	rows := sessionRows(tracker.Stats{ByTopic: map[solver.Topic]int{
		solver.TopicAlgebra:    1,
		solver.TopicArithmetic: 3,
		solver.TopicCalculus:   1,
	}})
	if len(rows) != 3 || rows[0].topic != solver.TopicArithmetic || rows[1].topic != solver.TopicAlgebra {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestStatsView(t *testing.T) {
	deps := screens.Deps{Solver: solver.New(solver.Options{}), Tracker: tracker.New(10)}
	for _, p := range []string{"2 + 2", "3 * 3", "0x + 1 = 2"} {
		deps.Tracker.Record(deps.Solver.Solve(p))
	}

	s := New(deps)
	if s.Init() != nil {
		t.Fatal("no store, nothing to load")
	}
	view := s.View(100, 40)
	for _, want := range []string{"This session", solver.TopicArithmetic.Label(), "66.7%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStatsLoadsStoredSummary(t *testing.T) {
	st, err := store.Open("file:TestStatsLoadsStoredSummary?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	deps := screens.Deps{Solver: solver.New(solver.Options{}), Tracker: tracker.New(10), History: st.HistoryRepo()}
	for _, p := range []string{"2 + 2", "mean of 1, 2"} {
		if _, err := tracker.Persist(context.Background(), deps.Tracker, deps.History, deps.Solver.Solve(p), store.SourceText); err != nil {
			t.Fatal(err)
		}
	}

	s := New(deps)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())

	if s.summary == nil || s.summary.Total != 2 {
		t.Fatalf("summary = %+v", s.summary)
	}
	if !strings.Contains(s.View(100, 40), "All time: 2 problems") {
		t.Error("view should show stored totals")
	}
}
