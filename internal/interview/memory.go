package interview

import "github.com/interviewace/interviewace/internal/evaluator"

// MaxHistoryTurns bounds the conversation sent to the model (four
// question/answer exchanges).
const MaxHistoryTurns = 8

// BuildContext renders the prompt used to ask the model for feedback on
// one answer: the interview setup, the last MaxHistoryTurns turns, the
// current exchange, the deterministic evaluation and a demand for a
// strict {"feedback", "followUp"} JSON reply. It is pure.
func BuildContext(question, answer string, history History, eval evaluator.Result, cfg Config) string {
	return render("context", promptData{
		Config:   cfg,
		History:  history.Recent(MaxHistoryTurns),
		Question: question,
		Answer:   answer,
		Eval:     eval,
	})
}
