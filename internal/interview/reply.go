package interview

import (
	"encoding/json"
	"errors"

	"github.com/interviewace/interviewace/internal/llm"
)

// RespondSchema is the reply contract of the respond prompt.
var RespondSchema = &llm.Schema{
	Name:        "interview-respond",
	Description: "Feedback on the candidate's answer plus the next question or the end of the interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences of feedback on the answer",
			},
			"nextQuestion": map[string]any{
				"type":        []any{"string", "null"},
				"description": "The next interview question, or null when ending",
			},
			"endInterview": map[string]any{
				"type":        "boolean",
				"description": "True when the interview should end now",
			},
		},
		"required": []any{"feedback", "nextQuestion", "endInterview"},
	},
}

// StartSchema is the reply contract of the start prompt.
var StartSchema = &llm.Schema{
	Name:        "interview-start",
	Description: "Opening greeting and first question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"greeting": map[string]any{"type": "string", "minLength": 1},
			"question": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"greeting", "question"},
	},
}

// FeedbackSchema is the reply contract of BuildContext.
var FeedbackSchema = &llm.Schema{
	Name:        "interview-feedback",
	Description: "Feedback on one answer and an optional follow-up question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{"type": "string", "minLength": 1},
			"followUp": map[string]any{"type": []any{"string", "null"}},
		},
		"required": []any{"feedback", "followUp"},
	},
}

// RespondReply is the parsed respond contract.
type RespondReply struct {
	Feedback     string  `json:"feedback"`
	NextQuestion *string `json:"nextQuestion"`
	EndInterview bool    `json:"endInterview"`
}

// StartReply is the parsed start contract.
type StartReply struct {
	Greeting string `json:"greeting"`
	Question string `json:"question"`
}

// FeedbackReply is the parsed BuildContext contract.
type FeedbackReply struct {
	Feedback string  `json:"feedback"`
	FollowUp *string `json:"followUp"`
}

// Reply is the outcome of validating model text against a schema: either
// Valid with the parsed value or Invalid with the reason.
type Reply[T any] struct {
	value  T
	reason string
	valid  bool
}

// Valid wraps a parsed reply.
func Valid[T any](v T) Reply[T] {
	return Reply[T]{value: v, valid: true}
}

// Invalid records why a reply was rejected.
func Invalid[T any](reason string) Reply[T] {
	return Reply[T]{reason: reason}
}

// Get returns the parsed value and whether the reply was valid.
func (r Reply[T]) Get() (T, bool) {
	return r.value, r.valid
}

// IsValid reports whether the reply passed validation.
func (r Reply[T]) IsValid() bool { return r.valid }

// Reason is empty for valid replies.
func (r Reply[T]) Reason() string { return r.reason }

// ParseReply extracts the JSON object from model text, validates it
// against schema and decodes it into T.
func ParseReply[T any](schema *llm.Schema, text string) Reply[T] {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return Invalid[T]("empty reply")
	}
	if err := llm.ValidateJSON(schema, []byte(raw)); err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) && inv.Err != nil {
			return Invalid[T](inv.Err.Error())
		}
		return Invalid[T](err.Error())
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Invalid[T]("decode: " + err.Error())
	}
	return Valid(v)
}
