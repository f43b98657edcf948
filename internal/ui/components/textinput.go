package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/ui/theme"
)

// AnswerInput wraps bubbles/textarea for typing interview answers. While
// locked it ignores all input and renders dimmed.
type AnswerInput struct {
	Model  textarea.Model
	locked bool
}

// NewAnswerInput creates a focused, unlocked answer input.
func NewAnswerInput(placeholder string, width int) AnswerInput {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(4)
	if width > 0 {
		ta.SetWidth(width)
	}
	ta.Focus()
	return AnswerInput{Model: ta}
}

// Init returns the initial command.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// SetLocked blocks or unblocks input.
func (a *AnswerInput) SetLocked(locked bool) {
	a.locked = locked
	if locked {
		a.Model.Blur()
	} else {
		a.Model.Focus()
	}
}

// Locked reports whether input is blocked.
func (a AnswerInput) Locked() bool {
	return a.locked
}

// SetWidth resizes the input.
func (a *AnswerInput) SetWidth(w int) {
	a.Model.SetWidth(w)
}

// Update handles messages. Locked inputs drop them.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.locked {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the input.
func (a AnswerInput) View() string {
	if a.locked {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(a.Model.View())
	}
	return a.Model.View()
}

// Value returns the current text.
func (a AnswerInput) Value() string {
	return a.Model.Value()
}

// Reset clears the text.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
}
