// Package theme holds the colors and text styles of the practice client.
package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Palette. Calm and high-contrast for long practice sessions.
var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Meta is the role · type · difficulty line above a conversation.
	Meta    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Divider = lipgloss.NewStyle().Foreground(Border)
)

// Conversation roles.
var (
	Interviewer = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Candidate   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Question    = lipgloss.NewStyle().Foreground(Text).Bold(true)
	Feedback    = lipgloss.NewStyle().Foreground(TextDim)
)

var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Menu rows.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Disabled   = lipgloss.NewStyle().Foreground(TextDim)
)

// Score bands on the 0–100 scale.
const (
	StrongScore = 75
	FairScore   = 50
)

// ScoreColor picks a style for a 0–100 score.
func ScoreColor(score float64) lipgloss.Style {
	c := Error
	switch {
	case score >= StrongScore:
		c = Success
	case score >= FairScore:
		c = Accent
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// Rule is a horizontal divider of the given width.
func Rule(width int) string {
	if width < 1 {
		return ""
	}
	return Divider.Render(strings.Repeat("─", width))
}
