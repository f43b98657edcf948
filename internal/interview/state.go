package interview

import (
	"context"
	"fmt"
	"log/slog"
)

// State is the UI-facing phase of an interview session.
type State string

const (
	StateIdle       State = "idle"
	StateSpeaking   State = "speaking"
	StateListening  State = "listening"
	StateEvaluating State = "evaluating"
	StateFinished   State = "finished"
)

// Event drives state transitions.
type Event string

const (
	EventSessionStarted     Event = "session_started"
	EventTTSFinished        Event = "tts_finished"
	EventAnswerSubmitted    Event = "answer_submitted"
	EventEvaluationComplete Event = "evaluation_complete"
	EventInterviewEnded     Event = "interview_ended"
)

// TransitionContext carries the counters the evaluating state needs.
type TransitionContext struct {
	QuestionIndex  int `json:"questionIndex"`
	TotalQuestions int `json:"totalQuestions"`
}

// Transition returns the state that follows cur on ev. Events with no
// edge from cur leave the state unchanged.
func Transition(cur State, ev Event, tc TransitionContext) State {
	next, _ := step(cur, ev, tc)
	return next
}

// Step is Transition that also reports whether an edge was taken. Ignored
// events are logged at debug level on logger (slog.Default when nil).
func Step(ctx context.Context, logger *slog.Logger, cur State, ev Event, tc TransitionContext) (State, bool) {
	next, ok := step(cur, ev, tc)
	if !ok {
		if logger == nil {
			logger = slog.Default()
		}
		logger.DebugContext(ctx, "ignored interview event",
			"state", cur,
			"event", ev,
			"question_index", tc.QuestionIndex,
			"total_questions", tc.TotalQuestions,
		)
	}
	return next, ok
}

func step(cur State, ev Event, tc TransitionContext) (State, bool) {
	if cur == StateFinished {
		return cur, false
	}
	if ev == EventInterviewEnded {
		return StateFinished, true
	}

	switch {
	case cur == StateIdle && ev == EventSessionStarted:
		return StateSpeaking, true
	case cur == StateSpeaking && ev == EventTTSFinished:
		return StateListening, true
	case cur == StateListening && ev == EventAnswerSubmitted:
		return StateEvaluating, true
	case cur == StateEvaluating && ev == EventEvaluationComplete:
		if tc.QuestionIndex >= tc.TotalQuestions {
			return StateFinished, true
		}
		return StateSpeaking, true
	}
	return cur, false
}

// IsInputDisabled reports whether the candidate may not type in s.
func IsInputDisabled(s State) bool {
	switch s {
	case StateSpeaking, StateEvaluating, StateFinished:
		return true
	}
	return false
}

// ShouldSpeak reports whether the interviewer's audio plays in s.
func ShouldSpeak(s State) bool {
	return s == StateSpeaking
}

// States lists every state in lifecycle order.
var States = []State{StateIdle, StateSpeaking, StateListening, StateEvaluating, StateFinished}

// Events lists every event.
var Events = []Event{
	EventSessionStarted, EventTTSFinished, EventAnswerSubmitted,
	EventEvaluationComplete, EventInterviewEnded,
}

// ParseState converts a wire value into a State.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown interview state %q", s)
}

// ParseEvent converts a wire value into an Event.
func ParseEvent(s string) (Event, error) {
	for _, ev := range Events {
		if string(ev) == s {
			return ev, nil
		}
	}
	return "", fmt.Errorf("unknown interview event %q", s)
}
