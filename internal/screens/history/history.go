package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/yechim/internal/screen"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/screens/solve"
	"github.com/abhisek/yechim/internal/tracker"
	"github.com/abhisek/yechim/internal/ui/layout"
	"github.com/abhisek/yechim/internal/ui/theme"
)

type clearedMsg struct {
	err error
}

// HistoryScreen lists recent solves, newest first. Enter expands the
// worked steps of the selected one.
type HistoryScreen struct {
	deps       screens.Deps
	entries    []tracker.Entry
	selected   int
	expanded   map[string]bool
	confirming bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		entries:  deps.Tracker.History(0),
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear history"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Steps"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "X", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case clearedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		}
		s.entries = s.deps.Tracker.History(0)
		s.selected = 0
		return s, nil

	case tea.KeyMsg:
		if s.confirming {
			s.confirming = false
			if msg.String() == "y" {
				return s, s.clear()
			}
			return s, nil
		}

		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			if len(s.entries) > 0 {
				id := s.entries[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		case "x":
			if len(s.entries) > 0 {
				s.confirming = true
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) clear() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		deps.Tracker.Clear()
		if deps.History != nil {
			if err := deps.History.Clear(context.Background()); err != nil {
				return clearedMsg{err: fmt.Errorf("clear stored history: %w", err)}
			}
		}
		return clearedMsg{}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)

	if s.errMsg != "" {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}
	if len(s.entries) == 0 {
		return dim.Italic(true).Render("\n\n  No problems solved yet. Start with SOLVE!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.confirming {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("  Clear all %d entries? (y/n)", len(s.entries))))
		b.WriteString("\n\n")
	}

	cw := min(width-4, 96)
	for i, e := range s.entries {
		b.WriteString(renderRow(e, i == s.selected, cw))
		b.WriteString("\n")
		if s.expanded[e.ID] {
			b.WriteString(solve.RenderEntry(e, "", cw))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func renderRow(e tracker.Entry, selected bool, cw int) string {
	prefix := "  "
	style := theme.Unselected
	if selected {
		prefix = "▸ "
		style = theme.Selected
	}

	mark := theme.Correct.Render("✓")
	if e.Failed {
		mark = theme.Incorrect.Render("✗")
	}

	when := e.SolvedAt.Local().Format("Jan 02 15:04")
	problem := truncate(e.Problem, max(cw/2, 16))
	answer := truncate(e.Answer, max(cw/3, 12))

	return fmt.Sprintf("%s%s %s  %s  %s %s",
		prefix,
		e.Topic.Icon(),
		style.Render(problem),
		theme.Math.Render(answer),
		mark,
		theme.Hint.Render(when),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
