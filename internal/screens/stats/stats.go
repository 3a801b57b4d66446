package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/yechim/internal/screen"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
	"github.com/abhisek/yechim/internal/ui/components"
	"github.com/abhisek/yechim/internal/ui/theme"
)

type storedLoadedMsg struct {
	summary *store.HistorySummary
	topics  []store.TopicCount
	err     error
}

// StatsScreen shows the running counters and, with a store, the
// all-time breakdown.
type StatsScreen struct {
	deps    screens.Deps
	stats   tracker.Stats
	summary *store.HistorySummary
	topics  []store.TopicCount
	errMsg  string
}

var _ screen.Screen = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(deps screens.Deps) *StatsScreen {
	return &StatsScreen{deps: deps, stats: deps.Tracker.Stats()}
}

func (s *StatsScreen) Init() tea.Cmd {
	repo := s.deps.History
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		sum, err := repo.Summary(ctx)
		if err != nil {
			return storedLoadedMsg{err: err}
		}
		topics, err := repo.TopicCounts(ctx)
		return storedLoadedMsg{summary: sum, topics: topics, err: err}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(storedLoadedMsg); ok {
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.summary = msg.summary
		s.topics = msg.topics
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{
		renderCounters(s.stats, cw),
		renderTopics("This session", sessionRows(s.stats), cw),
	}

	switch {
	case s.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	case s.summary != nil:
		sections = append(sections, renderStored(s.summary, s.topics, cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		"\n"+strings.Join(sections, "\n\n"))
}

func renderCounters(st tracker.Stats, cw int) string {
	cell := func(value, label string, c lipgloss.Style) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			c.Bold(true).Render(value),
			theme.Hint.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(fmt.Sprint(st.Solved), "solved", lipgloss.NewStyle().Foreground(theme.Success)),
		"    ",
		cell(fmt.Sprint(st.Failed), "failed", lipgloss.NewStyle().Foreground(theme.Error)),
		"    ",
		cell(fmt.Sprintf("%.1f%%", st.Accuracy), "accuracy", lipgloss.NewStyle().Foreground(theme.Chalk)),
		"    ",
		cell(fmt.Sprint(st.Images), "photos", lipgloss.NewStyle().Foreground(theme.ChalkBlue)),
		"    ",
		cell(st.AvgSolveTime.Round(time.Microsecond).String(), "avg time", lipgloss.NewStyle().Foreground(theme.Text)),
	)
	return components.Card(lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, row), cw,
		lipgloss.NewStyle().BorderForeground(theme.ChalkBlue))
}

type topicRow struct {
	topic  solver.Topic
	count  int
	failed int
}

func sessionRows(st tracker.Stats) []topicRow {
	rows := make([]topicRow, 0, len(st.ByTopic))
	for t, n := range st.ByTopic {
		rows = append(rows, topicRow{topic: t, count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].topic < rows[j].topic
	})
	return rows
}

func renderTopics(title string, rows []topicRow, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(theme.Hint.Render("no problems yet"))
		return b.String()
	}

	total := 0
	for _, r := range rows {
		total += r.count
	}
	for _, r := range rows {
		bar := components.NewProgressBar(r.topic.Icon()+" "+r.topic.Label(), float64(r.count)/float64(total), cw)
		bar.LabelWidth = 18
		bar.Suffix = fmt.Sprint(r.count)
		if r.failed > 0 {
			bar.Suffix += theme.Incorrect.Render(fmt.Sprintf(" ✗%d", r.failed))
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return b.String()
}

func renderStored(sum *store.HistorySummary, topics []store.TopicCount, cw int) string {
	rows := make([]topicRow, 0, len(topics))
	for _, tc := range topics {
		rows = append(rows, topicRow{
			topic:  solver.Topic(tc.Topic),
			count:  tc.Solved + tc.Failed,
			failed: tc.Failed,
		})
	}
	title := fmt.Sprintf("All time: %d problems, %d photos", sum.Total, sum.Images)
	return renderTopics(title, rows, cw)
}
