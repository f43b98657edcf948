// Package summary shows the report for a finished or stored interview.
package summary

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screen"
	"github.com/interviewace/interviewace/internal/store"
	"github.com/interviewace/interviewace/internal/ui/components"
	"github.com/interviewace/interviewace/internal/ui/layout"
	"github.com/interviewace/interviewace/internal/ui/theme"
)

// savedMsg is sent once the session record exists.
type savedMsg struct {
	Record    *store.SessionRecord
	Persisted bool
	Err       error
}

// reportMsg carries the generated report.
type reportMsg struct {
	Report *interview.Report
	Err    error
}

// SummaryScreen displays the session report.
type SummaryScreen struct {
	completer *interview.Completer
	reporter  *interview.Reporter
	input     *interview.CompleteInput

	record    *store.SessionRecord
	persisted bool
	report    *interview.Report
	errMsg    string
	title     string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// NewForInterview saves the transcript in and then reports on it. A nil
// completer builds the record without saving it.
func NewForInterview(completer *interview.Completer, reporter *interview.Reporter, in interview.CompleteInput) *SummaryScreen {
	return &SummaryScreen{
		completer: completer,
		reporter:  orDefault(reporter),
		input:     &in,
		title:     "Interview Complete",
	}
}

// NewForSession reports on an already stored session.
func NewForSession(reporter *interview.Reporter, rec *store.SessionRecord) *SummaryScreen {
	return &SummaryScreen{
		reporter:  orDefault(reporter),
		record:    rec,
		persisted: true,
		title:     "Session Report",
	}
}

func orDefault(r *interview.Reporter) *interview.Reporter {
	if r == nil {
		return interview.NewReporter(nil, false, nil)
	}
	return r
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.record != nil {
		return s.generate(s.record)
	}
	completer, in := s.completer, *s.input
	return func() tea.Msg {
		if completer == nil {
			rec, err := interview.NewCompleter(nil).Build(in)
			return savedMsg{Record: rec, Err: err}
		}
		rec, err := completer.Complete(context.Background(), in)
		return savedMsg{Record: rec, Persisted: err == nil, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return s.title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

// Report is the report once generated.
func (s *SummaryScreen) Report() *interview.Report {
	return s.report
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.record = msg.Record
		s.persisted = msg.Persisted
		return s, s.generate(msg.Record)

	case reportMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) generate(rec *store.SessionRecord) tea.Cmd {
	reporter := s.reporter
	return func() tea.Msg {
		rep, err := reporter.Generate(context.Background(), rec)
		return reportMsg{Report: rep, Err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Could not finish the report: %s\n\n  Press Enter to go back.", s.errMsg))
	}
	if s.report == nil || s.record == nil {
		return center.Foreground(theme.TextDim).Render("\n\n\n  Scoring your interview...")
	}

	rec, rep := s.record, s.report
	textWidth := layout.TextWidth(width)
	block := lipgloss.NewStyle().Width(textWidth)

	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("%s interview: %s", rec.Type, rec.Role)))
	b.WriteString("\n")

	dur := rec.EndedAt.Sub(rec.StartedAt).Round(time.Second)
	meta := fmt.Sprintf("%s · %s · %s", rec.Difficulty, rec.StartedAt.Local().Format("Jan 2 15:04"), dur)
	if !s.persisted {
		meta += " · not saved"
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(meta))
	b.WriteString("\n\n")

	b.WriteString(components.NewScoreBar("Overall", rep.OverallScore, textWidth).View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Trend: %s   Consistency: %.0f%%",
		rep.Progress.Trend, rep.Progress.Consistency*100)))
	b.WriteString("\n\n")

	for i, q := range rec.Questions {
		score := evaluator.NormalizeStored(q.Score, rec.ScoreScale)
		b.WriteString(components.NewScoreBar(fmt.Sprintf("Q%d", i+1), score, textWidth).View())
		b.WriteString("\n")
		b.WriteString(block.Foreground(theme.TextDim).Render("   " + q.Question))
		b.WriteString("\n")
	}

	writeList(&b, "Strengths", rep.Strengths, theme.Success, block)
	writeList(&b, "To improve", rep.Improvements, theme.Accent, block)

	if rep.Source == interview.SourceAI && rep.Summary != "" {
		b.WriteString("\n")
		b.WriteString(block.Foreground(theme.Text).Render(rep.Summary))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func writeList(b *strings.Builder, heading string, items []string, c color.Color, block lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(heading))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(block.Foreground(theme.Text).Render("  • " + it))
		b.WriteString("\n")
	}
}
