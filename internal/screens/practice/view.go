package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/ui/layout"
	"github.com/interviewace/interviewace/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.quitConfirm:
		return renderQuitConfirm(width, len(s.entries))
	case s.question == "":
		return renderLoading(width)
	}
	return s.renderInterview(width)
}

func (s *Screen) renderInterview(width int) string {
	textWidth := layout.TextWidth(width)
	block := lipgloss.NewStyle().Width(textWidth)

	var b strings.Builder

	cfg := s.deps.Config
	b.WriteString(theme.Meta.Render(fmt.Sprintf("%s · %s · %s", cfg.Role, cfg.Type, cfg.Difficulty)))
	b.WriteString("\n")
	b.WriteString(theme.Rule(textWidth))
	b.WriteString("\n\n")

	if s.index == 0 && s.greeting != "" {
		b.WriteString(block.Foreground(theme.Text).Render(s.greeting))
		b.WriteString("\n\n")
	}

	if s.hasScore {
		b.WriteString(theme.ScoreColor(s.lastScore).Render(fmt.Sprintf("Last answer: %.0f/100", s.lastScore)))
		b.WriteString("\n")
		if s.lastFeedback != "" {
			b.WriteString(theme.Feedback.Width(textWidth).Render(s.lastFeedback))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.Interviewer.Render("Interviewer"))
	b.WriteString("\n")
	b.WriteString(theme.Question.Width(textWidth).Render(s.question))
	b.WriteString("\n\n")

	b.WriteString(stateLine(s.state))
	b.WriteString("\n")
	b.WriteString(s.input.View())

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func stateLine(st interview.State) string {
	switch st {
	case interview.StateSpeaking:
		return theme.Hint.Render("The interviewer is asking...")
	case interview.StateEvaluating:
		return theme.Hint.Render("Evaluating your answer...")
	case interview.StateListening:
		return theme.Candidate.Render("Your answer")
	}
	return ""
}

func renderQuitConfirm(width, answered int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	note := "Nothing has been answered yet, so nothing will be saved."
	if answered > 0 {
		note = fmt.Sprintf("Your %d answered question(s) will be scored and saved.", answered)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End the interview now?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(note))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end interview"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your interview...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
