package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
// The interview orchestrators, the feedback enhancer and the report
// generator all talk to the model through this interface.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its output.
	// When the request carries a Schema the provider uses its native
	// structured output mechanism and validates the reply before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the interviewer persona and rules.
	System string

	// Messages is the conversation. Orchestrators send a single user
	// message holding the fully built prompt; the streaming chat endpoint
	// sends the running transcript.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is raw model text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "interview-turn".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. Validated JSON when a Schema was
	// set on the request, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// CompleteOptions tunes a single Complete call.
type CompleteOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
}

// Complete issues exactly one text completion for prompt and returns the
// raw model text. It performs no validation and no retries of its own;
// whatever decorators wrap p still apply.
func Complete(ctx context.Context, p Provider, prompt string, opts CompleteOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	resp, err := p.Generate(ctx, Request{
		System:      opts.System,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		return "", &ErrMaxTokensExceeded{Content: resp.Content}
	}
	return string(resp.Content), nil
}

// ExtractJSON returns the first JSON object embedded in model text.
// Models frequently wrap JSON in markdown fences or add a sentence of
// preamble; both are stripped. The input is returned trimmed when no
// object delimiters are found.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
