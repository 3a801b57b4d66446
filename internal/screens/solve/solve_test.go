package solve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/llm"
	"github.com/abhisek/yechim/internal/screens"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/tracker"
)

func newDeps() screens.Deps {
	return screens.Deps{
		Solver:  solver.New(solver.Options{}),
		Tracker: tracker.New(10),
	}
}

func typeText(s *SolveScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// run executes cmd and feeds its message back into the screen.
func run(t *testing.T, s *SolveScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	s.Update(cmd())
}

func TestSolveTypedProblem(t *testing.T) {
	deps := newDeps()
	s := New(deps)
	typeText(s, "2x + 3 = 7")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.busy {
		t.Fatal("expected screen to be busy while solving")
	}
	run(t, s, cmd)

	if s.busy || s.result == nil {
		t.Fatalf("expected a result, err = %q", s.errMsg)
	}
	if s.result.entry.Answer != "2" {
		t.Errorf("answer = %q", s.result.entry.Answer)
	}
	if deps.Tracker.Stats().Solved != 1 {
		t.Error("solve was not recorded")
	}
	if s.input.Value() != "" {
		t.Errorf("input not cleared: %q", s.input.Value())
	}

	view := s.View(100, 40)
	for _, want := range []string{"Answer", "2", solver.TopicAlgebra.Label()} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSolveEmptyInputIsIgnored(t *testing.T) {
	s := New(newDeps())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil || s.busy {
		t.Fatal("empty input should not start a solve")
	}
}

func TestTopicCycling(t *testing.T) {
	deps := newDeps()
	s := New(deps)
	if s.topic() != "" {
		t.Fatalf("expected automatic topic, got %q", s.topic())
	}

	// Step to the generic solver, the last entry.
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.topic() != solver.TopicGeneric {
		t.Fatalf("shift+tab from auto should wrap to %q, got %q", solver.TopicGeneric, s.topic())
	}

	typeText(s, "2 + 3 * 4")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)
	if s.result.entry.Topic != solver.TopicGeneric {
		t.Errorf("forced topic ignored: %q", s.result.entry.Topic)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.topic() != "" {
		t.Errorf("tab past the last topic should return to auto, got %q", s.topic())
	}
}

func TestScanWithoutExtractor(t *testing.T) {
	s := New(newDeps())
	typeText(s, "@photo.png")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)

	if !strings.Contains(s.errMsg, "LLM provider") {
		t.Fatalf("errMsg = %q", s.errMsg)
	}
}

func TestScanPhoto(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	path := filepath.Join(t.TempDir(), "p.png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		t.Fatal(err)
	}

	reply, _ := json.Marshal(map[string]any{"problem_text": "x^2 - 4 = 0", "confidence": 0.8})
	deps := newDeps()
	deps.Extractor = extract.New(llm.NewMockProvider(llm.MockResponse{Content: reply}), extract.Options{})
	s := New(deps)

	typeText(s, "@"+path)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)

	if s.result == nil {
		t.Fatalf("expected result, err = %q", s.errMsg)
	}
	if s.result.extracted != "x^2 - 4 = 0" {
		t.Errorf("extracted = %q", s.result.extracted)
	}
	if deps.Tracker.Stats().Images != 1 {
		t.Error("photo not counted")
	}
	if !strings.Contains(s.View(100, 40), "Read from photo") {
		t.Error("view should show the extracted text")
	}
}
