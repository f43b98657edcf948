package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/interviewace/interviewace/internal/analytics"
	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// sessionView is a session with scores on the 0–100 scale.
type sessionView struct {
	ID           string                 `json:"id"`
	Role         string                 `json:"role"`
	Type         string                 `json:"type"`
	Difficulty   string                 `json:"difficulty"`
	Config       json.RawMessage        `json:"config,omitempty"`
	Questions    []store.QuestionRecord `json:"questions,omitempty"`
	OverallScore float64                `json:"overallScore"`
	StartedAt    time.Time              `json:"startedAt"`
	EndedAt      time.Time              `json:"endedAt"`
}

func newSessionView(rec *store.SessionRecord, detail bool) sessionView {
	v := sessionView{
		ID:           rec.ID,
		Role:         rec.Role,
		Type:         rec.Type,
		Difficulty:   rec.Difficulty,
		OverallScore: evaluator.NormalizeStored(rec.OverallScore, rec.ScoreScale),
		StartedAt:    rec.StartedAt,
		EndedAt:      rec.EndedAt,
	}
	if detail {
		v.Config = rec.Config
		v.Questions = make([]store.QuestionRecord, len(rec.Questions))
		for i, q := range rec.Questions {
			q.Score = evaluator.NormalizeStored(q.Score, rec.ScoreScale)
			v.Questions[i] = q
		}
	}
	return v
}

func (s *Server) handleListSessions(c echo.Context) error {
	limit, err := intParam(c, "limit", defaultPageSize)
	if err != nil {
		return err
	}
	offset, err := intParam(c, "offset", 0)
	if err != nil {
		return err
	}
	if limit < 1 || limit > maxPageSize {
		return &interview.InputError{Field: "limit", Reason: "must be between 1 and " + strconv.Itoa(maxPageSize)}
	}
	if offset < 0 {
		return &interview.InputError{Field: "offset", Reason: "must not be negative"}
	}

	ctx := c.Request().Context()
	email := userEmail(c)
	recs, err := s.deps.Sessions.ListByUser(ctx, email, store.ListOpts{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	total, err := s.deps.Sessions.CountByUser(ctx, email)
	if err != nil {
		return err
	}

	views := make([]sessionView, len(recs))
	for i := range recs {
		views[i] = newSessionView(&recs[i], false)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sessions": views,
		"total":    total,
	})
}

// ownedSession loads the :id session, hiding other users' sessions as
// not found.
func (s *Server) ownedSession(c echo.Context) (*store.SessionRecord, error) {
	rec, err := s.deps.Sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if rec.UserEmail != userEmail(c) {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (s *Server) handleGetSession(c echo.Context) error {
	rec, err := s.ownedSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionView(rec, true))
}

type reportResponse struct {
	*interview.Report
	HTML string `json:"html"`
}

func (s *Server) handleReport(c echo.Context) error {
	rec, err := s.ownedSession(c)
	if err != nil {
		return err
	}

	reporter := s.deps.Reporter
	if reporter == nil {
		reporter = interview.NewReporter(nil, false, s.logger)
	}
	rep, err := reporter.Generate(c.Request().Context(), rec)
	if err != nil {
		return err
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(rep.Summary), &html); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportResponse{Report: rep, HTML: html.String()})
}

func (s *Server) handleAnalytics(c echo.Context) error {
	recs, err := s.deps.Sessions.ListByUser(c.Request().Context(), userEmail(c), store.ListOpts{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analytics.Aggregate(recs, s.now()))
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &interview.InputError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}
