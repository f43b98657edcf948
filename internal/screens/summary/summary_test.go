package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/store"
)

type memWriter struct {
	created []*store.SessionRecord
	err     error
}

func (m *memWriter) Create(_ context.Context, s *store.SessionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, s)
	return nil
}

func testInput() interview.CompleteInput {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return interview.CompleteInput{
		UserEmail: "ada@example.com",
		Config:    interview.Config{Role: "Backend Engineer", Type: "technical", Difficulty: "medium"},
		Entries: []interview.TranscriptEntry{
			{Kind: store.KindMain, Question: "Tell me about caching.", Answer: "...", Score: 80, Strengths: []string{"Clear structure"}},
			{Kind: store.KindMain, Question: "How do you test?", Answer: "...", Score: 60, Improvements: []string{"Add examples"}},
		},
		StartedAt: start,
		EndedAt:   start.Add(20 * time.Minute),
	}
}

// drive runs Init and feeds the resulting messages back until the
// report is ready.
func drive(t *testing.T, s *SummaryScreen) {
	t.Helper()
	cmd := s.Init()
	for i := 0; cmd != nil && i < 4; i++ {
		_, cmd = s.Update(cmd())
	}
}

func TestSummaryScreen_SavesThenReports(t *testing.T) {
	w := &memWriter{}
	s := NewForInterview(interview.NewCompleter(w), nil, testInput())
	drive(t, s)

	if len(w.created) != 1 {
		t.Fatalf("expected 1 saved session, got %d", len(w.created))
	}
	rep := s.Report()
	if rep == nil {
		t.Fatal("expected a report")
	}
	if rep.OverallScore != 70 {
		t.Errorf("OverallScore = %v, want 70", rep.OverallScore)
	}
	if rep.Source != interview.SourceFallback {
		t.Errorf("Source = %q, want fallback", rep.Source)
	}

	view := s.View(100, 30)
	for _, want := range []string{"Backend Engineer", "Clear structure", "Add examples"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "not saved") {
		t.Error("saved session should not be marked as not saved")
	}
}

func TestSummaryScreen_WithoutCompleterIsNotSaved(t *testing.T) {
	s := NewForInterview(nil, nil, testInput())
	drive(t, s)

	if s.Report() == nil {
		t.Fatal("expected a report")
	}
	if !strings.Contains(s.View(100, 30), "not saved") {
		t.Error("expected the view to say the session was not saved")
	}
}

func TestSummaryScreen_SaveErrorShown(t *testing.T) {
	s := NewForInterview(interview.NewCompleter(&memWriter{err: errors.New("disk full")}), nil, testInput())
	drive(t, s)

	if s.Report() != nil {
		t.Error("no report expected after a failed save")
	}
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("expected the save error in the view")
	}
}

func TestSummaryScreen_StoredSession(t *testing.T) {
	rec := &store.SessionRecord{
		ID: "s1", Role: "Designer", Type: "behavioral", Difficulty: "easy",
		Questions:    []store.QuestionRecord{{Kind: store.KindMain, Question: "Why design?", Score: 7}},
		OverallScore: 7,
		ScoreScale:   store.ScaleUnknown,
		StartedAt:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		EndedAt:      time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC),
	}
	s := NewForSession(nil, rec)
	if s.Title() != "Session Report" {
		t.Errorf("Title = %q", s.Title())
	}
	drive(t, s)

	if got := s.Report().OverallScore; got != 70 {
		t.Errorf("legacy score not normalized: got %v, want 70", got)
	}
}

func TestSummaryScreen_EnterPops(t *testing.T) {
	s := NewForInterview(nil, nil, testInput())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
