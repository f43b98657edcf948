package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/ui/theme"
)

// ScoreBar draws a 0–100 score as a colored bar followed by the number.
// Scores outside the range are clamped for the bar only.
type ScoreBar struct {
	Label string
	Score float64
	Width int
}

func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

// scoreText is as wide as "  100/100".
const scoreText = 9

func (p ScoreBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	barWidth := max(p.Width-lipgloss.Width(b.String())-scoreText, 4)
	filled := min(max(int(float64(barWidth)*p.Score/100), 0), barWidth)

	band := theme.ScoreColor(p.Score)
	b.WriteString(lipgloss.NewStyle().Background(band.GetForeground()).Render(strings.Repeat(" ", filled)))
	b.WriteString(lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)))
	b.WriteString(band.Render(fmt.Sprintf("  %3.0f/100", p.Score)))
	return b.String()
}
