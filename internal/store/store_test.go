package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer s2.Close()

	var n int
	require.NoError(t, s2.DB().QueryRow("SELECT COUNT(*) FROM interview_sessions").Scan(&n))
	assert.Equal(t, 0, n)
}

func sampleSession(id, email string, started time.Time) *SessionRecord {
	return &SessionRecord{
		ID:         id,
		UserEmail:  email,
		Role:       "backend engineer",
		Type:       "technical",
		Difficulty: "medium",
		Config:     json.RawMessage(`{"role":"backend engineer","type":"technical","difficulty":"medium"}`),
		Questions: []QuestionRecord{
			{Kind: KindMain, Question: "Explain indexes.", Answer: "B-trees speed lookups.", Score: 72, Feedback: "Solid."},
			{Kind: KindMain, Question: "What is a deadlock?", Answer: "Two waits.", Score: 40},
		},
		OverallScore: 56,
		ScoreScale:   ScaleHundred,
		StartedAt:    started,
		EndedAt:      started.Add(20 * time.Minute),
	}
}

func TestSessionRepo_CreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, sampleSession("s-1", "ada@example.com", started)))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.UserEmail)
	assert.Equal(t, "medium", got.Difficulty)
	assert.Equal(t, 56.0, got.OverallScore)
	assert.Equal(t, ScaleHundred, got.ScoreScale)
	assert.True(t, got.StartedAt.Equal(started))
	assert.True(t, got.EndedAt.Equal(started.Add(20*time.Minute)))
	require.Len(t, got.Questions, 2)
	assert.Equal(t, KindMain, got.Questions[0].Kind)
	assert.Equal(t, "Solid.", got.Questions[0].Feedback)
	assert.JSONEq(t, `{"role":"backend engineer","type":"technical","difficulty":"medium"}`, string(got.Config))
}

func TestSessionRepo_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SessionRepo().Get(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestSessionRepo_CreateRequiresID(t *testing.T) {
	s := openTestStore(t)
	err := s.SessionRepo().Create(context.Background(), &SessionRecord{UserEmail: "x@example.com"})
	assert.Error(t, err)
}

func TestSessionRepo_ListByUserNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, offset := range []int{2, 0, 3, 1} {
		id := fmt.Sprintf("s-%d", i)
		require.NoError(t, repo.Create(ctx, sampleSession(id, "ada@example.com", base.Add(time.Duration(offset)*time.Hour))))
	}
	require.NoError(t, repo.Create(ctx, sampleSession("other", "bob@example.com", base.Add(10*time.Hour))))

	all, err := repo.ListByUser(ctx, "ada@example.com", ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].StartedAt.After(all[i].StartedAt), "sessions must be sorted by start time descending")
	}
	assert.Equal(t, "s-2", all[0].ID)

	page, err := repo.ListByUser(ctx, "ada@example.com", ListOpts{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "s-0", page[0].ID)
	assert.Equal(t, "s-3", page[1].ID)

	n, err := repo.CountByUser(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	none, err := repo.ListByUser(ctx, "nobody@example.com", ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventRepo_AppendQueryAndStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openrouter", Model: "openai/gpt-4o-mini", Purpose: "respond", SessionID: "s-1",
		InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true,
		RequestBody: "[user]\nhi", ResponseBody: `{"feedback":"ok"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openrouter", Model: "openai/gpt-4o-mini", Purpose: "respond", SessionID: "s-2",
		LatencyMs: 100, Success: false, ErrorMessage: "rate limited",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openrouter", Model: "openai/gpt-4o-mini", Purpose: "report",
		InputTokens: 500, OutputTokens: 200, LatencyMs: 900, Success: true,
	}))

	all, err := repo.QueryLLMEvents(ctx, LLMEventQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "report", all[0].Purpose, "newest first")

	respond, err := repo.QueryLLMEvents(ctx, LLMEventQuery{Purpose: "respond", SessionID: "s-1"})
	require.NoError(t, err)
	require.Len(t, respond, 1)
	assert.Equal(t, `{"feedback":"ok"}`, respond[0].ResponseBody)

	ev, err := repo.GetLLMEvent(ctx, respond[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, ev.InputTokens)
	assert.True(t, ev.Success)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.True(t, IsNotFound(err))

	stats, err := repo.UsageStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "report", stats[0].Purpose)
	assert.Equal(t, "respond", stats[1].Purpose)
	assert.Equal(t, 2, stats[1].Requests)
	assert.Equal(t, 1, stats[1].Failures)
	assert.Equal(t, int64(100), stats[1].InputTokens)
	assert.InDelta(t, 200.0, stats[1].AvgLatencyMs, 0.001)
}
