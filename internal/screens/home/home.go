package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/analytics"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screen"
	"github.com/interviewace/interviewace/internal/screens/history"
	"github.com/interviewace/interviewace/internal/screens/practice"
	"github.com/interviewace/interviewace/internal/store"
	"github.com/interviewace/interviewace/internal/ui/components"
	"github.com/interviewace/interviewace/internal/ui/theme"
)

// Deps are what the home menu needs to open the other screens.
type Deps struct {
	Practice practice.Deps

	// Sessions backs the history screen. Nil disables it.
	Sessions store.SessionRepo
	Now      func() time.Time
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu

	stats    *analytics.Summary
	statsErr error
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// statsMsg carries the practice summary shown under the banner.
type statsMsg struct {
	summary analytics.Summary
	err     error
}

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	cfg := deps.Practice.Config
	items := []components.MenuItem{
		{
			Label:  "START INTERVIEW",
			Detail: fmt.Sprintf("%s · %s · %s · %d questions", cfg.Role, cfg.Type, cfg.Difficulty, cfg.TotalQuestions()),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(h.deps.Practice)}
				}
			},
		},
		{
			Label:    "HISTORY",
			Disabled: deps.Sessions == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(
						h.deps.Sessions, h.deps.Practice.Reporter, h.deps.Practice.UserEmail, h.deps.Now)}
				}
			},
		},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads the stats, which change after every finished interview.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	sessions := h.deps.Sessions
	if sessions == nil {
		return nil
	}
	email, now := h.deps.Practice.UserEmail, h.now()
	return func() tea.Msg {
		recs, err := sessions.ListByUser(context.Background(), email, store.ListOpts{})
		if err != nil {
			return statsMsg{err: err}
		}
		return statsMsg{summary: analytics.Aggregate(recs, now)}
	}
}

func (h *HomeScreen) now() time.Time {
	if h.deps.Now != nil {
		return h.deps.Now()
	}
	return time.Now()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsMsg); ok {
		h.statsErr = m.err
		if m.err == nil {
			h.stats = &m.summary
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	mode := "AI interviewer"
	if o := h.deps.Practice.Orchestrator; o == nil || !o.AIEnabled() {
		mode = "offline question bank"
	}
	who := h.deps.Practice.UserEmail

	sections := []string{
		center.Render(renderBanner(width)),
		center.Foreground(theme.TextDim).Render(fmt.Sprintf("Mock interviews · %s · %s", mode, who)),
	}
	if line := h.statsLine(); line != "" {
		sections = append(sections, center.Render(line))
	}
	sections = append(sections,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))),
	)
	return "\n" + strings.Join(sections, "\n\n")
}

func (h *HomeScreen) statsLine() string {
	switch {
	case h.statsErr != nil:
		return theme.Hint.Render("Practice stats unavailable")
	case h.stats == nil:
		return ""
	case h.stats.TotalSessions == 0:
		return theme.Hint.Render("No interviews yet. Your first one starts below.")
	}
	st := h.stats
	return fmt.Sprintf("%s  %s  %s",
		theme.Body.Render(fmt.Sprintf("%d interviews", st.TotalSessions)),
		theme.ScoreColor(st.AverageScore).Render(fmt.Sprintf("avg %.0f", st.AverageScore)),
		theme.Subtitle.Render(fmt.Sprintf("%d-day streak", st.Streak)),
	)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
