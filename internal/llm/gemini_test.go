package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback":     map[string]any{"type": "string"},
			"score":        map[string]any{"type": "integer"},
			"nextQuestion": map[string]any{"type": []any{"string", "null"}},
			"verdict":      map[string]any{"type": "string", "enum": []any{"strong", "mixed", "weak"}},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"feedback", "score"},
	}

	schema := geminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["feedback"].Type != "STRING" {
		t.Fatalf("expected STRING for feedback, got %s", schema.Properties["feedback"].Type)
	}
	if schema.Properties["score"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for score, got %s", schema.Properties["score"].Type)
	}
	next := schema.Properties["nextQuestion"]
	if next.Type != "STRING" {
		t.Fatalf("expected STRING for nextQuestion, got %s", next.Type)
	}
	if next.Nullable == nil || !*next.Nullable {
		t.Fatal("expected nextQuestion to be nullable")
	}
	if len(schema.Properties["verdict"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["verdict"].Enum))
	}
	if schema.Properties["strengths"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for strengths items, got %s", schema.Properties["strengths"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "What trade-offs did you consider?"}},
				},
				"finishReason": "MAX_TOKENS",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 7,
				"totalTokenCount":      19,
			},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an interviewer.",
		Messages:  []Message{{Role: RoleUser, Content: "I used a queue."}},
		MaxTokens: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash") {
		t.Errorf("request path %q does not name the resolved model", gotPath)
	}
	if string(resp.Content) != "What trade-offs did you consider?" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.StopReason != "max_tokens" {
		t.Errorf("stop reason = %q, want max_tokens", resp.StopReason)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 7 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestGeminiError(t *testing.T) {
	err := geminiError(genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"})
	if !errors.As(err, new(*ErrRateLimit)) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
	err = geminiError(&genai.APIError{Code: http.StatusUnauthorized})
	if !errors.As(err, new(*ErrAuthentication)) {
		t.Fatalf("expected ErrAuthentication, got %T", err)
	}
	err = geminiError(errors.New("dial tcp: connection refused"))
	if !errors.As(err, new(*ErrProviderUnavailable)) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}
