package practice

import "github.com/interviewace/interviewace/internal/interview"

// startedMsg carries the interviewer's opening turn.
type startedMsg struct {
	Result *interview.StartResult
	Err    error
}

// spokenMsg stands in for the end of speech synthesis for the question
// at position Index, counting follow-ups.
type spokenMsg struct {
	Index int
}

// respondedMsg carries the interviewer's reaction to an answer.
type respondedMsg struct {
	Question string
	Answer   string
	Result   *interview.RespondResult
	Err      error
}
