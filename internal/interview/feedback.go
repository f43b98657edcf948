package interview

import (
	"context"
	"strings"

	"github.com/interviewace/interviewace/internal/evaluator"
)

// EnhanceInput asks for feedback on one answer without advancing the
// interview.
type EnhanceInput struct {
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	History   History `json:"history"`
	Config    Config  `json:"config"`
	SessionID string  `json:"sessionId,omitempty"`
}

// EnhanceResult pairs the deterministic evaluation with feedback and an
// optional follow-up question.
type EnhanceResult struct {
	Evaluation evaluator.Result `json:"evaluation"`
	Feedback   string           `json:"feedback"`
	FollowUp   *string          `json:"followUp"`
	Source     Source           `json:"source"`
}

// Enhance evaluates an answer and, when AI is enabled, asks the model for
// richer feedback using the BuildContext prompt. The fallback uses the
// evaluator's feedback and a templated follow-up for the weakest
// dimension.
func (o *Orchestrator) Enhance(ctx context.Context, in EnhanceInput) (*EnhanceResult, error) {
	switch {
	case strings.TrimSpace(in.Question) == "":
		return nil, &InputError{Field: "question", Reason: "is required"}
	case strings.TrimSpace(in.Answer) == "":
		return nil, &InputError{Field: "answer", Reason: "is required"}
	}
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}

	eval := o.eval.Evaluate(in.Question, in.Answer, in.Config.evalCriteria())
	res := &EnhanceResult{Evaluation: eval}

	prompt := BuildContext(in.Question, in.Answer, in.History, eval, in.Config)
	if reply, ok := attempt[FeedbackReply](ctx, o, PurposeFeedback, in.SessionID, prompt, FeedbackSchema, nil); ok {
		res.Feedback = strings.TrimSpace(reply.Feedback)
		if reply.FollowUp != nil {
			if f := strings.TrimSpace(*reply.FollowUp); f != "" {
				res.FollowUp = &f
			}
		}
		res.Source = SourceAI
		return res, nil
	}

	res.Feedback = eval.Feedback
	if eval.ShouldFollowUp && eval.FollowUpFocus != nil {
		f := FollowUpQuestion(eval)
		res.FollowUp = &f
	}
	res.Source = SourceFallback
	return res, nil
}

var followUpTemplates = map[evaluator.Dimension]string{
	evaluator.DimTechnical:  "Can you go one level deeper into how that works technically?",
	evaluator.DimClarity:    "Could you summarize your answer in two or three sentences?",
	evaluator.DimConfidence: "What would you recommend, and why are you confident in that choice?",
	evaluator.DimRelevance:  "How does that connect back to the original question?",
	evaluator.DimStructure:  "Can you walk me through that step by step, including the outcome?",
}

// FollowUpQuestion asks about the weakest part of an evaluated answer.
func FollowUpQuestion(r evaluator.Result) string {
	if r.FollowUpFocus == nil {
		return followUpFor("")
	}
	return followUpFor(evaluator.Dimension(*r.FollowUpFocus))
}

func followUpFor(d evaluator.Dimension) string {
	if q, ok := followUpTemplates[d]; ok {
		return q
	}
	return "Can you tell me more about that?"
}
