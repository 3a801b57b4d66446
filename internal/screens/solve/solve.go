package solve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/yechim/internal/screen"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
	"github.com/abhisek/yechim/internal/ui/components"
	"github.com/abhisek/yechim/internal/ui/layout"
	"github.com/abhisek/yechim/internal/ui/theme"
)

// extractTimeout bounds one photo extraction.
const extractTimeout = 90 * time.Second

// solvedMsg carries the result of a solve started from this screen.
type solvedMsg struct {
	entry tracker.Entry

	// extracted is the text read from a photo, empty for typed problems.
	extracted string
	err       error
}

// SolveScreen takes a problem, solves it and shows the worked steps.
type SolveScreen struct {
	deps   screens.Deps
	input  components.ProblemInput
	topics []solver.Topic

	// topicIdx selects a forced topic; -1 lets the classifier decide.
	topicIdx int

	busy   bool
	result *solvedMsg
	errMsg string
}

var _ screen.Screen = (*SolveScreen)(nil)
var _ screen.KeyHintProvider = (*SolveScreen)(nil)

// New creates a SolveScreen. Previous problems are offered on up/down.
func New(deps screens.Deps) *SolveScreen {
	var recall []string
	for _, e := range deps.Tracker.History(0) {
		recall = append(recall, e.Problem)
	}
	placeholder := "2x + 3 = 7, derivative of x^3, area of circle radius 5"
	if deps.Extractor != nil {
		placeholder += ", @photo.png"
	}
	return &SolveScreen{
		deps:     deps,
		input:    components.NewProblemInput(placeholder, 256, recall),
		topics:   solver.AllTopics,
		topicIdx: -1,
	}
}

func (s *SolveScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SolveScreen) Title() string {
	return "Solve"
}

func (s *SolveScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Solve"},
		{Key: "Tab", Description: "Topic"},
		{Key: "↑↓", Description: "Previous"},
		{Key: "Esc", Description: "Back"},
	}
}

// topic returns the forced topic, or "" for automatic classification.
func (s *SolveScreen) topic() solver.Topic {
	if s.topicIdx < 0 {
		return ""
	}
	return s.topics[s.topicIdx]
}

func (s *SolveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case solvedMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			s.result = nil
			return s, nil
		}
		s.errMsg = ""
		s.result = &msg
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.topicIdx++
			if s.topicIdx >= len(s.topics) {
				s.topicIdx = -1
			}
			return s, nil
		case "shift+tab":
			s.topicIdx--
			if s.topicIdx < -1 {
				s.topicIdx = len(s.topics) - 1
			}
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}

	if s.busy {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SolveScreen) submit() tea.Cmd {
	problem := s.input.Value()
	if problem == "" || s.busy {
		return nil
	}
	s.input.Submit(problem)
	s.busy = true

	if path, ok := strings.CutPrefix(problem, "@"); ok {
		return s.scan(strings.TrimSpace(path))
	}

	deps, topic := s.deps, s.topic()
	return func() tea.Msg {
		var sol solver.Solution
		if topic != "" {
			sol = deps.Solver.SolveAs(problem, topic)
		} else {
			sol = deps.Solver.Solve(problem)
		}
		return solvedMsg{entry: record(deps, sol, store.SourceText)}
	}
}

func (s *SolveScreen) scan(path string) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		if deps.Extractor == nil {
			return solvedMsg{err: fmt.Errorf("photo scanning needs an LLM provider (see yechim config init)")}
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return solvedMsg{err: fmt.Errorf("read image: %w", err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
		defer cancel()
		res, err := deps.Extractor.Extract(ctx, data)
		if err != nil {
			return solvedMsg{err: err}
		}

		sol := deps.Solver.Solve(res.Text)
		return solvedMsg{entry: record(deps, sol, store.SourceImage), extracted: res.Text}
	}
}

func record(deps screens.Deps, sol solver.Solution, source string) tracker.Entry {
	entry, err := tracker.Persist(context.Background(), deps.Tracker, deps.History, sol, source)
	if err != nil {
		log.Warn().Err(err).Str("id", entry.ID).Msg("failed to persist solution")
	}
	return entry
}

func (s *SolveScreen) View(width, height int) string {
	cw := min(width-4, 96)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.renderTopicLine(cw))
	b.WriteString("\n\n  ")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("  Solving..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  " + s.errMsg))
	case s.result != nil:
		b.WriteString(RenderEntry(s.result.entry, s.result.extracted, cw))
	default:
		b.WriteString(theme.Hint.Render("  Type a problem and press Enter."))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (s *SolveScreen) renderTopicLine(cw int) string {
	label := "Auto"
	if t := s.topic(); t != "" {
		label = t.Icon() + " " + t.Label()
	}
	chip := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ChalkBlue).
		Padding(0, 1).Render(label)
	return "  " + theme.Hint.Render("Topic ") + chip +
		lipgloss.NewStyle().Foreground(theme.Border).Render(" "+strings.Repeat("─", max(cw-lipgloss.Width(label)-10, 0)))
}

// RenderEntry draws a solved problem: topic, answer, steps and the
// closing explanation.
func RenderEntry(e tracker.Entry, extracted string, cw int) string {
	sol := e.Solution
	var b strings.Builder

	if extracted != "" {
		b.WriteString(theme.Hint.Render("  Read from photo: "))
		b.WriteString(theme.Body.Render(extracted))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(sol.Topic.Icon() + " " + sol.Topic.Label()))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %s", sol.SolveTime.Round(time.Microsecond))))
	b.WriteString("\n\n")

	answerStyle := theme.Correct
	if e.Failed {
		answerStyle = theme.Incorrect
	}
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render("Answer: "))
	b.WriteString(answerStyle.Render(e.Answer))
	b.WriteString("\n\n")

	for _, st := range sol.Steps {
		b.WriteString(renderStep(st, cw))
	}

	if sol.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(components.Card(theme.Body.Render(sol.Explanation), cw,
			lipgloss.NewStyle().BorderForeground(theme.Border)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderStep(st solver.Step, cw int) string {
	num := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("  %d. ", st.Index))
	line := num + theme.Body.Render(st.Description)
	if st.Expression != "" {
		line += "\n     " + theme.Math.Render(st.Expression)
	}
	if st.Explanation != "" {
		line += "\n     " + lipgloss.NewStyle().Foreground(theme.TextDim).Width(max(cw-5, 10)).
			Render(st.Explanation)
	}
	return line + "\n"
}
