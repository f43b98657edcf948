package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/interviewace/interviewace/internal/interview"
)

func (s *Server) handleStart(c echo.Context) error {
	var in interview.StartInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	res, err := s.deps.Orchestrator.Start(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleRespond(c echo.Context) error {
	var in interview.RespondInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	res, err := s.deps.Orchestrator.Respond(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleEvaluate(c echo.Context) error {
	var in interview.EnhanceInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	res, err := s.deps.Orchestrator.Enhance(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

type decideRequest struct {
	Config        interview.Config `json:"config"`
	QuestionIndex int              `json:"questionIndex"`
	CurrentScore  float64          `json:"currentScore"`
	// SessionScores includes the current score.
	SessionScores []float64 `json:"sessionScores"`
	LastResponse  string    `json:"lastResponse"`
}

func (s *Server) handleDecide(c echo.Context) error {
	var req decideRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := req.Config.Validate(); err != nil {
		return err
	}
	if req.QuestionIndex < 0 {
		return &interview.InputError{Field: "questionIndex", Reason: "must not be negative"}
	}
	if req.CurrentScore < 0 || req.CurrentScore > 100 {
		return &interview.InputError{Field: "currentScore", Reason: "must be between 0 and 100"}
	}

	dc := interview.NewDecisionContext(req.Config, req.QuestionIndex, req.CurrentScore, req.SessionScores, req.LastResponse)
	return c.JSON(http.StatusOK, map[string]any{
		"decision": interview.Decide(dc),
		"progress": interview.CalculateProgress(req.SessionScores),
	})
}

type transitionRequest struct {
	State          string `json:"state"`
	Event          string `json:"event"`
	QuestionIndex  int    `json:"questionIndex"`
	TotalQuestions int    `json:"totalQuestions"`
}

type transitionResponse struct {
	State           interview.State `json:"state"`
	Changed         bool            `json:"changed"`
	IsInputDisabled bool            `json:"isInputDisabled"`
	ShouldSpeak     bool            `json:"shouldSpeak"`
}

func (s *Server) handleTransition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cur, err := interview.ParseState(req.State)
	if err != nil {
		return &interview.InputError{Field: "state", Reason: err.Error()}
	}
	ev, err := interview.ParseEvent(req.Event)
	if err != nil {
		return &interview.InputError{Field: "event", Reason: err.Error()}
	}

	next, changed := interview.Step(c.Request().Context(), s.logger, cur, ev, interview.TransitionContext{
		QuestionIndex:  req.QuestionIndex,
		TotalQuestions: req.TotalQuestions,
	})
	return c.JSON(http.StatusOK, transitionResponse{
		State:           next,
		Changed:         changed,
		IsInputDisabled: interview.IsInputDisabled(next),
		ShouldSpeak:     interview.ShouldSpeak(next),
	})
}

func (s *Server) handleComplete(c echo.Context) error {
	if s.deps.Completer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session storage is not configured")
	}
	var in interview.CompleteInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.UserEmail = userEmail(c)

	rec, err := s.deps.Completer.Complete(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"id":           rec.ID,
		"overallScore": rec.OverallScore,
	})
}
