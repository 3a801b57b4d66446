package home

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/yechim/internal/router"
	"github.com/abhisek/yechim/internal/screen"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/screens/history"
	"github.com/abhisek/yechim/internal/screens/solve"
	"github.com/abhisek/yechim/internal/screens/stats"
	"github.com/abhisek/yechim/internal/tracker"
	"github.com/abhisek/yechim/internal/ui/components"
	"github.com/abhisek/yechim/internal/ui/theme"
)

const buttonWidth = 22

// HomeScreen is the main menu.
type HomeScreen struct {
	deps  screens.Deps
	menu  components.Menu
	stats tracker.Stats
	mood  components.MascotMood
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Focuser = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "SOLVE", Action: push(func() screen.Screen { return solve.New(deps) })},
		{Label: "HISTORY", Action: push(func() screen.Screen { return history.New(deps) })},
		{Label: "STATS", Action: push(func() screen.Screen { return stats.New(deps) })},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	h.refresh()
	return h
}

// refresh re-reads the tracker; the mascot mirrors the last solve.
func (h *HomeScreen) refresh() {
	h.stats = h.deps.Tracker.Stats()
	h.mood = components.MascotIdle
	if last := h.deps.Tracker.History(1); len(last) == 1 {
		h.mood = components.MascotHappy
		if last[0].Failed {
			h.mood = components.MascotStuck
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Focus() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := height+8 < 30 || width < 100
	cw := components.ContentWidth(width)

	var sections []string
	if compact {
		sections = append(sections, center(components.Banner(0), cw))
	} else {
		sections = append(sections,
			center(components.Banner(cw), cw),
			center(components.Mascot(h.mood), cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		renderMenu(h.menu.Labels(), h.menu.Selected, cw, compact))

	return components.BoardFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func center(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderStatsBar(st tracker.Stats, cw int, compact bool) string {
	solvedStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Chalk).Bold(true)
	imgStyle := lipgloss.NewStyle().Foreground(theme.ChalkBlue).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			solvedStyle.Render(fmt.Sprintf("✓%d", st.Solved)),
			accStyle.Render(fmt.Sprintf("◎%.0f%%", st.Accuracy)),
			imgStyle.Render(fmt.Sprintf("▣%d", st.Images)))
	} else {
		line = fmt.Sprintf("%s  %s  %s  %s",
			solvedStyle.Render(fmt.Sprintf("✓ %d SOLVED", st.Solved)),
			accStyle.Render(fmt.Sprintf("◎ %.0f%% ACCURACY", st.Accuracy)),
			imgStyle.Render(fmt.Sprintf("▣ %d PHOTOS", st.Images)),
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(avgText(st.AvgSolveTime)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ChalkBlue).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func avgText(d time.Duration) string {
	if d == 0 {
		return "⏱ -"
	}
	return "⏱ " + d.Round(time.Microsecond).String()
}

func renderMenu(labels []string, selected, cw int, compact bool) string {
	lines := make([]string, len(labels))
	for i, label := range labels {
		if compact {
			if i == selected {
				lines[i] = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Chalk).
					Bold(true).Render(" ▸ " + label + " ")
			} else {
				lines[i] = theme.Unselected.Render("   " + label)
			}
			continue
		}
		lines[i] = components.MenuButton(label, i == selected, buttonWidth)
	}
	return center(strings.Join(lines, "\n"), cw)
}
