package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/store"
)

// SessionWriter persists a completed session.
type SessionWriter interface {
	Create(ctx context.Context, s *store.SessionRecord) error
}

// TranscriptEntry is one answered question, main or follow-up.
type TranscriptEntry struct {
	Kind         store.QuestionKind `json:"kind"`
	Question     string             `json:"question"`
	Answer       string             `json:"answer"`
	Score        float64            `json:"score"`
	Feedback     string             `json:"feedback,omitempty"`
	Strengths    []string           `json:"strengths,omitempty"`
	Improvements []string           `json:"improvements,omitempty"`
}

// CompleteInput describes a finished interview.
type CompleteInput struct {
	UserEmail string            `json:"userEmail"`
	Config    Config            `json:"config"`
	Entries   []TranscriptEntry `json:"questions"`
	StartedAt time.Time         `json:"startedAt"`
	EndedAt   time.Time         `json:"endedAt,omitempty"`

	// ScoreScale is the scale entry scores are on; 0 means 0–100.
	ScoreScale evaluator.Scale `json:"scoreScale,omitempty"`
}

// Completer builds and writes session records.
type Completer struct {
	writer SessionWriter
	now    func() time.Time
	newID  func() string
}

// NewCompleter creates a Completer writing through w.
func NewCompleter(w SessionWriter) *Completer {
	return &Completer{
		writer: w,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Complete validates the transcript, builds the session record and writes
// it once. Only main questions are persisted; the overall score is the
// mean of their scores on the 0–100 scale.
func (c *Completer) Complete(ctx context.Context, in CompleteInput) (*store.SessionRecord, error) {
	rec, err := c.Build(in)
	if err != nil {
		return nil, err
	}
	if err := c.writer.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return rec, nil
}

// Build turns a transcript into a session record without writing it.
func (c *Completer) Build(in CompleteInput) (*store.SessionRecord, error) {
	if strings.TrimSpace(in.UserEmail) == "" {
		return nil, &InputError{Field: "userEmail", Reason: "is required"}
	}
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	if in.StartedAt.IsZero() {
		return nil, &InputError{Field: "startedAt", Reason: "is required"}
	}
	ended := in.EndedAt
	if ended.IsZero() {
		ended = c.now()
	}
	if ended.Before(in.StartedAt) {
		return nil, &InputError{Field: "endedAt", Reason: "is before startedAt"}
	}

	scale := in.ScoreScale
	if scale == 0 {
		scale = evaluator.ScaleHundred
	}

	var (
		questions []store.QuestionRecord
		scores    []float64
	)
	for i, e := range in.Entries {
		switch e.Kind {
		case store.KindFollowUp:
			continue
		case store.KindMain, "":
		default:
			return nil, &InputError{Field: fmt.Sprintf("questions[%d].kind", i), Reason: "must be main or follow_up"}
		}
		score := evaluator.Normalize(e.Score, scale)
		scores = append(scores, score)
		questions = append(questions, store.QuestionRecord{
			Kind:         store.KindMain,
			Question:     e.Question,
			Answer:       e.Answer,
			Score:        score,
			Feedback:     e.Feedback,
			Strengths:    e.Strengths,
			Improvements: e.Improvements,
		})
	}

	cfg, err := json.Marshal(in.Config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return &store.SessionRecord{
		ID:           c.newID(),
		UserEmail:    strings.TrimSpace(in.UserEmail),
		Role:         in.Config.Role,
		Type:         in.Config.Type,
		Difficulty:   in.Config.Difficulty,
		Config:       cfg,
		Questions:    questions,
		OverallScore: math.Round(mean(scores)*10) / 10,
		ScoreScale:   store.ScaleHundred,
		StartedAt:    in.StartedAt.UTC(),
		EndedAt:      ended.UTC(),
	}, nil
}
