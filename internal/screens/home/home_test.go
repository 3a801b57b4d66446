package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/yechim/internal/router"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/screens/solve"
	"github.com/abhisek/yechim/internal/screens/stats"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/tracker"
	"github.com/abhisek/yechim/internal/ui/components"
)

func newDeps() screens.Deps {
	return screens.Deps{Solver: solver.New(solver.Options{}), Tracker: tracker.New(10)}
}

func TestHomeMenuPushesScreens(t *testing.T) {
	h := New(newDeps())

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*solve.SolveScreen); !ok {
		t.Fatalf("SOLVE pushed %T", push.Screen)
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push = cmd().(router.PushScreenMsg)
	if _, ok := push.Screen.(*stats.StatsScreen); !ok {
		t.Fatalf("STATS pushed %T", push.Screen)
	}
}

func TestHomeExit(t *testing.T) {
	h := New(newDeps())
	for range 3 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("EXIT should quit, got %T", cmd())
	}
}

func TestHomeFocusRefreshesMood(t *testing.T) {
	deps := newDeps()
	h := New(deps)
	if h.mood != components.MascotIdle {
		t.Fatalf("mood = %v", h.mood)
	}

	deps.Tracker.Record(deps.Solver.Solve("0x + 1 = 2"))
	h.Focus()
	if h.mood != components.MascotStuck || h.stats.Failed != 1 {
		t.Fatalf("mood = %v, stats = %+v", h.mood, h.stats)
	}

	deps.Tracker.Record(deps.Solver.Solve("1 + 1"))
	h.Focus()
	if h.mood != components.MascotHappy {
		t.Fatalf("mood = %v", h.mood)
	}

	view := h.View(120, 40)
	if !strings.Contains(view, "2 SOLVED") {
		t.Errorf("stats bar missing from view")
	}
}
