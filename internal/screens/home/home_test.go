package home

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/router"
	"github.com/interviewace/interviewace/internal/screens/practice"
	"github.com/interviewace/interviewace/internal/store"
)

func testDeps() Deps {
	return Deps{Practice: practice.Deps{
		Config:    interview.Config{Role: "Backend Engineer", Type: "technical", Difficulty: "medium"},
		UserEmail: "ada@example.com",
	}}
}

func TestHome_StartPushesPractice(t *testing.T) {
	h := New(testDeps())
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*practice.Screen); !ok {
		t.Errorf("pushed %T, want *practice.Screen", push.Screen)
	}
}

func TestHome_HistoryDisabledWithoutStore(t *testing.T) {
	h := New(testDeps())
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if h.menu.Selected != 2 {
		t.Errorf("Selected = %d, want 2 (history skipped)", h.menu.Selected)
	}
}

func TestHome_ViewShowsConfigAndMode(t *testing.T) {
	view := New(testDeps()).View(120, 30)
	for _, want := range []string{"Backend Engineer", "offline question bank", "ada@example.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

type fakeSessions struct {
	recs  []store.SessionRecord
	err   error
	lists int
}

func (f *fakeSessions) Create(context.Context, *store.SessionRecord) error { return nil }
func (f *fakeSessions) Get(context.Context, string) (*store.SessionRecord, error) {
	return nil, store.ErrNotFound
}
func (f *fakeSessions) ListByUser(context.Context, string, store.ListOpts) ([]store.SessionRecord, error) {
	f.lists++
	return f.recs, f.err
}
func (f *fakeSessions) CountByUser(context.Context, string) (int, error) { return len(f.recs), f.err }

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func TestHome_ShowsStatsAndRefreshesOnResume(t *testing.T) {
	repo := &fakeSessions{recs: []store.SessionRecord{
		{ID: "a", Role: "SRE", Type: "technical", Difficulty: "hard", OverallScore: 80, ScoreScale: store.ScaleHundred, StartedAt: now.Add(-time.Hour), EndedAt: now},
	}}
	deps := testDeps()
	deps.Sessions = repo
	deps.Now = func() time.Time { return now }

	h := New(deps)
	h.Update(h.Init()())
	if view := h.View(120, 30); !strings.Contains(view, "1 interviews") || !strings.Contains(view, "1-day streak") {
		t.Fatalf("stats line missing from view:\n%s", view)
	}

	repo.recs = append(repo.recs, store.SessionRecord{
		ID: "b", Role: "SRE", Type: "technical", Difficulty: "hard", OverallScore: 60, ScoreScale: store.ScaleHundred,
		StartedAt: now.Add(-30 * time.Minute), EndedAt: now,
	})
	h.Update(h.Resume()())
	if repo.lists != 2 {
		t.Fatalf("ListByUser called %d times, want 2", repo.lists)
	}
	if h.stats.TotalSessions != 2 || h.stats.AverageScore != 70 {
		t.Errorf("stats = %+v, want 2 sessions averaging 70", *h.stats)
	}
}

func TestHome_FirstRunAndErrors(t *testing.T) {
	deps := testDeps()
	deps.Sessions = &fakeSessions{}
	h := New(deps)
	h.Update(h.Init()())
	if !strings.Contains(h.View(120, 30), "No interviews yet") {
		t.Error("expected the first-run hint")
	}

	deps.Sessions = &fakeSessions{err: errors.New("disk gone")}
	h = New(deps)
	h.Update(h.Init()())
	if !strings.Contains(h.View(120, 30), "stats unavailable") {
		t.Error("expected the stats error hint")
	}
}

func TestHome_NoStoreSkipsStats(t *testing.T) {
	if cmd := New(testDeps()).Init(); cmd != nil {
		t.Fatal("expected no load without a session store")
	}
}
