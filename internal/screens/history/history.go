package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/analytics"
	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screen"
	"github.com/interviewace/interviewace/internal/screens/summary"
	"github.com/interviewace/interviewace/internal/store"
	"github.com/interviewace/interviewace/internal/ui/layout"
	"github.com/interviewace/interviewace/internal/ui/theme"
)

// MaxSessions caps how many sessions are listed.
const MaxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Stats    analytics.Summary
	Err      error
}

// HistoryScreen lists past interviews with aggregate stats.
type HistoryScreen struct {
	sessions store.SessionRepo
	reporter *interview.Reporter
	email    string
	now      func() time.Time

	records  []store.SessionRecord
	stats    analytics.Summary
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for email's sessions.
func New(sessions store.SessionRepo, reporter *interview.Reporter, email string, now func() time.Time) *HistoryScreen {
	if now == nil {
		now = time.Now
	}
	return &HistoryScreen{sessions: sessions, reporter: reporter, email: email, now: now}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, email, now := s.sessions, s.email, s.now
	return func() tea.Msg {
		ctx := context.Background()

		all, err := repo.ListByUser(ctx, email, store.ListOpts{})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		recent := all
		if len(recent) > MaxSessions {
			recent = recent[:MaxSessions]
		}
		return historyLoadedMsg{Sessions: recent, Stats: analytics.Aggregate(all, now())}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Report"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Sessions
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.records) {
				rec := s.records[s.selected]
				next := summary.NewForSession(s.reporter, &rec)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No interviews yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	st := s.stats
	statsLine := fmt.Sprintf("Interviews: %d    Average: %.0f    Best: %.0f    Trend: %s    Streak: %d day(s)",
		st.TotalSessions, st.AverageScore, st.BestScore, st.Progress.Trend, st.Streak)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")
	if st.NextMilestone > 0 {
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("Next streak milestone: %d days", st.NextMilestone)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		score := evaluator.NormalizeStored(rec.OverallScore, rec.ScoreScale)
		line := fmt.Sprintf("%s%s  %-28s  %-12s  %-6s  %d questions  ",
			prefix,
			rec.StartedAt.Local().Format("Jan 02, 2006"),
			truncate(rec.Role, 28),
			rec.Type,
			rec.Difficulty,
			len(rec.Questions),
		)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		row := style.Render(line) + theme.ScoreColor(score).Render(fmt.Sprintf("%3.0f", score))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
