package interview

import (
	"context"
	"strings"

	"github.com/interviewace/interviewace/internal/evaluator"
)

// FallbackQuestionLimit ends a fallback interview once the question index
// reaches it.
const FallbackQuestionLimit = 5

// RespondInput is one answered question.
type RespondInput struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	History       History  `json:"history"`
	Config        Config   `json:"config"`
	QuestionIndex int      `json:"questionIndex"`
	UsedQuestions []string `json:"usedQuestions,omitempty"`

	// SessionScores are the 0–100 scores of earlier answers; they only
	// feed the advisory decision.
	SessionScores []float64 `json:"sessionScores,omitempty"`
	SessionID     string    `json:"sessionId,omitempty"`
}

// Validate checks the fields Respond cannot work without.
func (in RespondInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Question) == "":
		return &InputError{Field: "question", Reason: "is required"}
	case strings.TrimSpace(in.Answer) == "":
		return &InputError{Field: "answer", Reason: "is required"}
	case in.QuestionIndex < 0:
		return &InputError{Field: "questionIndex", Reason: "must not be negative"}
	}
	return in.Config.Validate()
}

// RespondResult is the interviewer's reaction to an answer.
type RespondResult struct {
	Feedback     string           `json:"feedback"`
	NextQuestion *string          `json:"nextQuestion"`
	Done         bool             `json:"done"`
	Source       Source           `json:"source"`
	Evaluation   evaluator.Result `json:"evaluation"`

	// Decision is the decision engine's verdict on the same turn. It is
	// advisory: Done and NextQuestion come from the path that ran.
	Decision Decision `json:"decision"`
}

// Respond evaluates an answer and produces feedback plus the next
// question. The deterministic evaluation always runs; the model is asked
// at most once and any failure falls back to the question bank.
func (o *Orchestrator) Respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	eval := o.eval.Evaluate(in.Question, in.Answer, in.Config.evalCriteria())

	scores := append(append([]float64(nil), in.SessionScores...), eval.OverallScore)
	res := &RespondResult{
		Evaluation: eval,
		Decision:   Decide(NewDecisionContext(in.Config, in.QuestionIndex, eval.OverallScore, scores, in.Answer)),
	}

	prompt := render("respond", promptData{
		Config:   in.Config,
		History:  in.History.Recent(MaxHistoryTurns),
		Question: in.Question,
		Answer:   in.Answer,
		Eval:     eval,
		Number:   in.QuestionIndex + 1,
		Total:    in.Config.TotalQuestions(),
		Used:     in.UsedQuestions,
	})

	if reply, ok := attempt(ctx, o, PurposeRespond, in.SessionID, prompt, RespondSchema, checkRespondReply); ok {
		res.Feedback = strings.TrimSpace(reply.Feedback)
		res.Done = reply.EndInterview
		if !res.Done {
			next := strings.TrimSpace(*reply.NextQuestion)
			res.NextQuestion = &next
		}
		res.Source = SourceAI
		return res, nil
	}

	res.Feedback = eval.Feedback
	res.Done = in.QuestionIndex >= FallbackQuestionLimit
	if !res.Done {
		next := o.nextFallbackQuestion(in)
		res.NextQuestion = &next
	}
	res.Source = SourceFallback
	return res, nil
}

// checkRespondReply rejects a reply that continues the interview without
// a question.
func checkRespondReply(r RespondReply) string {
	if !r.EndInterview && (r.NextQuestion == nil || strings.TrimSpace(*r.NextQuestion) == "") {
		return "nextQuestion is required when the interview continues"
	}
	return ""
}

// nextFallbackQuestion prefers the next configured question that has not
// been asked, then the bank.
func (o *Orchestrator) nextFallbackQuestion(in RespondInput) string {
	used := append(append([]string(nil), in.UsedQuestions...), in.Question)

	asked := make(map[string]bool, len(used))
	for _, u := range used {
		asked[strings.ToLower(strings.TrimSpace(u))] = true
	}
	for _, q := range in.Config.Questions {
		if q = strings.TrimSpace(q); q != "" && !asked[strings.ToLower(q)] {
			return q
		}
	}
	return o.bank.NextQuestion(in.Config.bankCriteria(), used).Text
}
