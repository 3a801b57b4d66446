package history

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/tracker"
)

func seeded(problems ...string) screens.Deps {
	deps := screens.Deps{Solver: solver.New(solver.Options{}), Tracker: tracker.New(10)}
	for _, p := range problems {
		deps.Tracker.Record(deps.Solver.Solve(p))
	}
	return deps
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestHistoryListsNewestFirst(t *testing.T) {
	s := New(seeded("2 + 2", "sin 30"))
	view := s.View(100, 30)

	first := strings.Index(view, "sin 30")
	second := strings.Index(view, "2 + 2")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest first:\n%s", view)
	}
}

func TestHistoryExpandShowsSteps(t *testing.T) {
	s := New(seeded("x^2 - 5x + 6 = 0"))
	before := s.View(100, 40)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	after := s.View(100, 40)

	if len(after) <= len(before) || !strings.Contains(after, "1. ") {
		t.Fatalf("expanded view should include numbered steps:\n%s", after)
	}
}

func TestHistoryNavigationBounds(t *testing.T) {
	s := New(seeded("1 + 1", "2 + 2"))
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Fatalf("selected = %d", s.selected)
	}
	s.Update(key('j'))
	s.Update(key('j'))
	if s.selected != 1 {
		t.Fatalf("selected = %d", s.selected)
	}
}

func TestHistoryClearConfirm(t *testing.T) {
	deps := seeded("1 + 1")
	s := New(deps)

	s.Update(key('x'))
	if !s.confirming {
		t.Fatal("expected confirmation prompt")
	}
	s.Update(key('n'))
	if s.confirming || len(s.entries) != 1 {
		t.Fatal("n should keep history")
	}

	s.Update(key('x'))
	_, cmd := s.Update(key('y'))
	if cmd == nil {
		t.Fatal("y should clear")
	}
	s.Update(cmd())

	if len(s.entries) != 0 || deps.Tracker.Stats().Solved != 0 {
		t.Fatal("history not cleared")
	}
	if !strings.Contains(s.View(100, 30), "No problems solved yet") {
		t.Error("expected empty state")
	}
}
