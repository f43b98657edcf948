package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/store"
)

var now = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

func session(id string, daysAgo int, typ, difficulty string, score float64, scale int) store.SessionRecord {
	start := now.AddDate(0, 0, -daysAgo).Add(-time.Hour)
	return store.SessionRecord{
		ID:           id,
		Role:         "Backend Engineer",
		Type:         typ,
		Difficulty:   difficulty,
		OverallScore: score,
		ScoreScale:   scale,
		Questions:    []store.QuestionRecord{{Kind: store.KindMain}, {Kind: store.KindMain}},
		StartedAt:    start,
		EndedAt:      start.Add(30 * time.Minute),
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, now)
	assert.Equal(t, 0, s.TotalSessions)
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Equal(t, interview.TrendStable, s.Progress.Trend)
	assert.Empty(t, s.ByType)
	assert.NotNil(t, s.ByType)
	assert.NotNil(t, s.Timeline)
	assert.Equal(t, 0, s.Streak)
	assert.Equal(t, 3, s.NextMilestone)
}

func TestAggregate_MixedLegacyScales(t *testing.T) {
	// Newest first, as the store returns them.
	sessions := []store.SessionRecord{
		session("d", 0, "technical", "hard", 90, store.ScaleHundred),
		session("c", 1, "behavioral", "medium", 9, store.ScaleUnknown),
		session("b", 2, "technical", "medium", 5, store.ScaleTen),
		session("a", 3, "technical", "easy", 50, store.ScaleUnknown),
	}

	s := Aggregate(sessions, now)
	require.Equal(t, 4, s.TotalSessions)
	assert.Equal(t, 8, s.TotalQuestions)

	require.Len(t, s.Timeline, 4)
	for i, want := range []struct {
		id    string
		score float64
	}{{"a", 50}, {"b", 50}, {"c", 90}, {"d", 90}} {
		assert.Equal(t, want.id, s.Timeline[i].SessionID)
		assert.Equal(t, want.score, s.Timeline[i].Score)
	}

	assert.Equal(t, 70.0, s.AverageScore)
	assert.Equal(t, 90.0, s.BestScore)
	assert.Equal(t, interview.TrendImproving, s.Progress.Trend)
	assert.Equal(t, 120.0, s.PracticeMinutes)

	assert.Equal(t, []Bucket{
		{Key: "behavioral", Sessions: 1, AverageScore: 90},
		{Key: "technical", Sessions: 3, AverageScore: 63.3},
	}, s.ByType)
	assert.Equal(t, []Bucket{
		{Key: "easy", Sessions: 1, AverageScore: 50},
		{Key: "hard", Sessions: 1, AverageScore: 90},
		{Key: "medium", Sessions: 2, AverageScore: 70},
	}, s.ByDifficulty)

	assert.Equal(t, 4, s.Streak)
	assert.Equal(t, 7, s.NextMilestone)
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	sessions := []store.SessionRecord{
		session("new", 0, "technical", "easy", 80, store.ScaleHundred),
		session("old", 5, "technical", "easy", 60, store.ScaleHundred),
	}
	Aggregate(sessions, now)
	assert.Equal(t, "new", sessions[0].ID)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		daysAgo []int
		want    int
	}{
		{"none", nil, 0},
		{"today only", []int{0}, 1},
		{"yesterday keeps streak", []int{1, 2}, 2},
		{"gap breaks", []int{0, 1, 3, 4}, 2},
		{"too old", []int{2, 3}, 0},
		{"same day twice", []int{0, 0, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ss []store.SessionRecord
			for _, d := range tt.daysAgo {
				ss = append(ss, session("s", d, "technical", "easy", 50, store.ScaleHundred))
			}
			assert.Equal(t, tt.want, Streak(ss, now))
		})
	}
}

func TestNextStreakMilestone(t *testing.T) {
	tests := []struct{ current, want int }{
		{0, 3}, {2, 3}, {3, 7}, {6, 7}, {7, 14}, {14, 30}, {29, 30}, {30, 60}, {45, 60},
	}
	for _, tt := range tests {
		if got := NextStreakMilestone(tt.current); got != tt.want {
			t.Errorf("NextStreakMilestone(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}
