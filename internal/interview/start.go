package interview

import (
	"context"
	"strings"
)

// StartInput opens an interview.
type StartInput struct {
	Config    Config `json:"config"`
	UserName  string `json:"userName,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// StartResult is the interviewer's opening turn.
type StartResult struct {
	Greeting       string `json:"greeting"`
	Question       string `json:"question"`
	TotalQuestions int    `json:"totalQuestions"`
	State          State  `json:"state"`
	Source         Source `json:"source"`
}

// Start produces the greeting and the first question. A configured
// question list always supplies the first question; otherwise the model
// picks one, falling back to the question bank.
func (o *Orchestrator) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}

	res := &StartResult{
		TotalQuestions: in.Config.TotalQuestions(),
		State:          Transition(StateIdle, EventSessionStarted, TransitionContext{}),
	}

	configured := firstConfigured(in.Config)
	prompt := render("start", promptData{
		Config:   in.Config,
		Total:    res.TotalQuestions,
		UserName: strings.TrimSpace(in.UserName),
	})
	if configured != "" {
		prompt += "\nThe first question must be exactly: " + configured
	}

	if reply, ok := attempt[StartReply](ctx, o, PurposeStart, in.SessionID, prompt, StartSchema, nil); ok {
		res.Greeting = strings.TrimSpace(reply.Greeting)
		res.Question = strings.TrimSpace(reply.Question)
		if configured != "" {
			res.Question = configured
		}
		res.Source = SourceAI
		return res, nil
	}

	res.Greeting = o.bank.Greeting(in.Config.bankCriteria(), in.UserName)
	res.Question = configured
	if res.Question == "" {
		res.Question = o.bank.FirstQuestion(in.Config.bankCriteria()).Text
	}
	res.Source = SourceFallback
	return res, nil
}

func firstConfigured(c Config) string {
	for _, q := range c.Questions {
		if q = strings.TrimSpace(q); q != "" {
			return q
		}
	}
	return ""
}
