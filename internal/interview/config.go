package interview

import (
	"strings"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/questionbank"
)

// DefaultTotalQuestions is used when the config names neither a count nor
// a question list.
const DefaultTotalQuestions = 5

// Difficulty levels accepted by Validate.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Config describes one interview. It is immutable for the session.
type Config struct {
	Role          string   `json:"role"`
	Type          string   `json:"type"`
	Difficulty    string   `json:"difficulty"`
	FocusArea     string   `json:"focusArea,omitempty"`
	Company       string   `json:"company,omitempty"`
	QuestionCount int      `json:"questionCount,omitempty"`
	Questions     []string `json:"questions,omitempty"`
}

// Validate reports the first missing or malformed field.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Role) == "":
		return &InputError{Field: "config.role", Reason: "is required"}
	case strings.TrimSpace(c.Type) == "":
		return &InputError{Field: "config.type", Reason: "is required"}
	case c.QuestionCount < 0:
		return &InputError{Field: "config.questionCount", Reason: "must not be negative"}
	}
	switch c.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	case "":
		return &InputError{Field: "config.difficulty", Reason: "is required"}
	default:
		return &InputError{Field: "config.difficulty", Reason: "must be easy, medium or hard"}
	}
	return nil
}

// TotalQuestions is QuestionCount when set, else the number of configured
// questions, else DefaultTotalQuestions.
func (c Config) TotalQuestions() int {
	switch {
	case c.QuestionCount > 0:
		return c.QuestionCount
	case len(c.Questions) > 0:
		return len(c.Questions)
	}
	return DefaultTotalQuestions
}

func (c Config) bankCriteria() questionbank.Criteria {
	return questionbank.Criteria{Role: c.Role, Type: c.Type, Difficulty: c.Difficulty}
}

func (c Config) evalCriteria() evaluator.Criteria {
	return evaluator.Criteria{Role: c.Role, Type: c.Type, Difficulty: c.Difficulty}
}
