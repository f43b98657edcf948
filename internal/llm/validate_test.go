package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func turnSchema() *Schema {
	return &Schema{
		Name:        "test-turn",
		Description: "Interviewer turn",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"feedback":     map[string]any{"type": "string", "minLength": 1},
				"nextQuestion": map[string]any{"type": []any{"string", "null"}},
				"endInterview": map[string]any{"type": "boolean"},
				"tone":         map[string]any{"type": "string", "enum": []any{"warm", "neutral"}},
			},
			"required": []any{"feedback", "endInterview"},
		},
	}
}

func TestValidateJSON_Valid(t *testing.T) {
	raw := []byte(`{"feedback":"Good use of an example.","nextQuestion":"How would you scale it?","endInterview":false}`)
	if err := ValidateJSON(turnSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateJSON_NullNextQuestion(t *testing.T) {
	raw := []byte(`{"feedback":"Thanks, that covers it.","nextQuestion":null,"endInterview":true}`)
	if err := ValidateJSON(turnSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"feedback":"ok"}`},
		{"wrong type", `{"feedback":"ok","endInterview":"no"}`},
		{"empty feedback", `{"feedback":"","endInterview":false}`},
		{"bad enum", `{"feedback":"ok","endInterview":false,"tone":"harsh"}`},
		{"malformed", `{not json}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(turnSchema(), []byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "test-report",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"headline": map[string]any{"type": "string"},
					},
					"required": []any{"headline"},
				},
				"scores": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"summary", "scores"},
		},
	}

	valid := json.RawMessage(`{"summary":{"headline":"Solid"},"scores":[70,85,92]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"summary":{"headline":"Solid"},"scores":["not","ints"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}
