package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// ProblemInput wraps bubbles/textinput with a shell-style recall of
// previously submitted problems on up/down.
type ProblemInput struct {
	Model   textinput.Model
	recall  []string
	cursor  int
	pending string
}

// NewProblemInput creates a focused input. recall is newest first.
func NewProblemInput(placeholder string, charLimit int, recall []string) ProblemInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return ProblemInput{
		Model:  ti,
		recall: recall,
		cursor: -1,
	}
}

// Init returns the initial command.
func (p ProblemInput) Init() tea.Cmd {
	return p.Model.Focus()
}

// Update handles messages.
func (p ProblemInput) Update(msg tea.Msg) (ProblemInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if p.cursor+1 < len(p.recall) {
				if p.cursor == -1 {
					p.pending = p.Model.Value()
				}
				p.cursor++
				p.setValue(p.recall[p.cursor])
			}
			return p, nil
		case "down":
			switch {
			case p.cursor > 0:
				p.cursor--
				p.setValue(p.recall[p.cursor])
			case p.cursor == 0:
				p.cursor = -1
				p.setValue(p.pending)
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.Model, cmd = p.Model.Update(msg)
	return p, cmd
}

func (p *ProblemInput) setValue(v string) {
	p.Model.SetValue(v)
	p.Model.CursorEnd()
}

// View renders the text input.
func (p ProblemInput) View() string {
	return p.Model.View()
}

// Value returns the trimmed input value.
func (p ProblemInput) Value() string {
	return strings.TrimSpace(p.Model.Value())
}

// Submit records v at the front of the recall list and clears the input.
func (p *ProblemInput) Submit(v string) {
	if v != "" && (len(p.recall) == 0 || p.recall[0] != v) {
		p.recall = append([]string{v}, p.recall...)
	}
	p.cursor = -1
	p.pending = ""
	p.Model.SetValue("")
}
