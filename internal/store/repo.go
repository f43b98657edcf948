package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// QuestionKind distinguishes planned questions from follow-ups.
type QuestionKind string

const (
	KindMain     QuestionKind = "main"
	KindFollowUp QuestionKind = "follow_up"
)

// QuestionRecord is one answered question of a persisted session.
type QuestionRecord struct {
	Kind         QuestionKind `json:"kind"`
	Question     string       `json:"question"`
	Answer       string       `json:"answer"`
	Score        float64      `json:"score"`
	Feedback     string       `json:"feedback,omitempty"`
	Strengths    []string     `json:"strengths,omitempty"`
	Improvements []string     `json:"improvements,omitempty"`
}

// Score scale markers stored alongside a session.
const (
	ScaleUnknown = 0
	ScaleTen     = 10
	ScaleHundred = 100
)

// SessionRecord is a completed interview. It is written once and never
// updated.
type SessionRecord struct {
	ID         string
	UserEmail  string
	Role       string
	Type       string
	Difficulty string

	// Config is the interview configuration exactly as it was submitted.
	Config json.RawMessage

	Questions    []QuestionRecord
	OverallScore float64

	// ScoreScale is the scale OverallScore and question scores were
	// recorded on. ScaleUnknown marks rows that predate the column.
	ScoreScale int

	StartedAt time.Time
	EndedAt   time.Time
}

// ListOpts configures session listing.
type ListOpts struct {
	Limit  int // max results (0 = unlimited)
	Offset int
}

// SessionRepo persists completed interview sessions.
type SessionRepo interface {
	// Create stores a new session. ID must be set by the caller.
	Create(ctx context.Context, s *SessionRecord) error

	// Get returns the session with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// ListByUser returns a user's sessions, most recently started first.
	ListByUser(ctx context.Context, email string, opts ListOpts) ([]SessionRecord, error)

	// CountByUser returns the number of sessions a user has completed.
	CountByUser(ctx context.Context, email string) (int, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a recorded LLM request.
type LLMEvent struct {
	ID        int64
	CreatedAt time.Time
	LLMRequestEventData
}

// LLMEventQuery filters recorded LLM events.
type LLMEventQuery struct {
	Purpose   string
	SessionID string
	Limit     int // max results (0 = unlimited)
}

// LLMUsage aggregates token usage per model and purpose.
type LLMUsage struct {
	Model        string
	Purpose      string
	Requests     int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs float64
}

// LLMEventRepo records and queries LLM request events.
type LLMEventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, q LLMEventQuery) ([]LLMEvent, error)

	// GetLLMEvent returns one event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// UsageStats aggregates events by model and purpose.
	UsageStats(ctx context.Context) ([]LLMUsage, error)
}
