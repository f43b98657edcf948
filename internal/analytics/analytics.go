// Package analytics aggregates a user's persisted interview sessions.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/store"
)

// Bucket is the session count and mean score for one grouping key.
type Bucket struct {
	Key          string  `json:"key"`
	Sessions     int     `json:"sessions"`
	AverageScore float64 `json:"averageScore"`
}

// Point is one session on the score timeline.
type Point struct {
	SessionID string    `json:"sessionId"`
	StartedAt time.Time `json:"startedAt"`
	Score     float64   `json:"score"`
}

// Summary is the analytics view over a set of sessions. Scores are 0–100.
type Summary struct {
	TotalSessions   int     `json:"totalSessions"`
	TotalQuestions  int     `json:"totalQuestions"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       float64 `json:"bestScore"`
	PracticeMinutes float64 `json:"practiceMinutes"`

	ByType       []Bucket `json:"byType"`
	ByDifficulty []Bucket `json:"byDifficulty"`
	ByRole       []Bucket `json:"byRole"`

	// Timeline is oldest first.
	Timeline []Point            `json:"timeline"`
	Progress interview.Progress `json:"progress"`

	// Streak counts consecutive practice days ending today, or yesterday
	// when there is no session yet today.
	Streak        int `json:"streak"`
	NextMilestone int `json:"nextMilestone"`
}

// Aggregate computes the Summary for sessions in any order. Stored scores
// are normalized using each record's scale marker, so rows written before
// the marker existed aggregate alongside new ones.
func Aggregate(sessions []store.SessionRecord, now time.Time) Summary {
	sorted := append([]store.SessionRecord(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartedAt.Equal(sorted[j].StartedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	s := Summary{
		TotalSessions: len(sorted),
		ByType:        []Bucket{},
		ByDifficulty:  []Bucket{},
		ByRole:        []Bucket{},
		Timeline:      make([]Point, 0, len(sorted)),
	}

	byType := newGrouper()
	byDifficulty := newGrouper()
	byRole := newGrouper()
	scores := make([]float64, 0, len(sorted))

	for _, rec := range sorted {
		score := evaluator.NormalizeStored(rec.OverallScore, rec.ScoreScale)
		scores = append(scores, score)
		s.Timeline = append(s.Timeline, Point{SessionID: rec.ID, StartedAt: rec.StartedAt, Score: score})
		s.TotalQuestions += len(rec.Questions)
		s.BestScore = math.Max(s.BestScore, score)
		if d := rec.EndedAt.Sub(rec.StartedAt); d > 0 {
			s.PracticeMinutes += d.Minutes()
		}

		byType.add(rec.Type, score)
		byDifficulty.add(rec.Difficulty, score)
		byRole.add(rec.Role, score)
	}

	s.Progress = interview.CalculateProgress(scores)
	s.AverageScore = round1(s.Progress.Average)
	s.PracticeMinutes = round1(s.PracticeMinutes)
	s.ByType = byType.buckets()
	s.ByDifficulty = byDifficulty.buckets()
	s.ByRole = byRole.buckets()
	s.Streak = Streak(sorted, now)
	s.NextMilestone = NextStreakMilestone(s.Streak)
	return s
}

type grouper struct {
	sums   map[string]float64
	counts map[string]int
}

func newGrouper() *grouper {
	return &grouper{sums: map[string]float64{}, counts: map[string]int{}}
}

func (g *grouper) add(key string, score float64) {
	if key == "" {
		key = "unknown"
	}
	g.sums[key] += score
	g.counts[key]++
}

// buckets returns the groups sorted by key.
func (g *grouper) buckets() []Bucket {
	out := make([]Bucket, 0, len(g.counts))
	for k, n := range g.counts {
		out = append(out, Bucket{Key: k, Sessions: n, AverageScore: round1(g.sums[k] / float64(n))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
