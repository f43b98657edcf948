package llm

import (
	"fmt"
	"slices"
	"time"
)

// ProviderNames lists the accepted values of Config.Provider.
var ProviderNames = []string{"openrouter", "openai", "anthropic", "gemini", "mock"}

// Config selects and configures the model backend.
type Config struct {
	Provider string

	OpenRouter OpenRouterConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	Retry      RetryConfig

	// Timeout bounds one model call.
	Timeout time.Duration
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// Referer and Title are sent as HTTP-Referer and X-Title for
	// OpenRouter app attribution.
	Referer string
	Title   string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff of WithRetry. Only report
// generation is wrapped; interview turns get a single attempt.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "openrouter",
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini", Title: "InterviewAce"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// credential returns the API key of the selected provider and whether
// the provider needs one at all.
func (c Config) credential() (key string, needed bool) {
	switch c.Provider {
	case "openrouter":
		return c.OpenRouter.APIKey, true
	case "openai":
		return c.OpenAI.APIKey, true
	case "anthropic":
		return c.Anthropic.APIKey, true
	case "gemini":
		return c.Gemini.APIKey, true
	}
	return "", false
}

// HasCredential reports whether AI features can run: the selected
// provider is known and, unless it is the mock, has an API key.
func (c Config) HasCredential() bool {
	if c.Provider == "mock" {
		return true
	}
	key, needed := c.credential()
	return needed && key != ""
}

func (c Config) Validate() error {
	if !slices.Contains(ProviderNames, c.Provider) {
		return fmt.Errorf("unknown LLM provider %q (want one of %v)", c.Provider, ProviderNames)
	}
	if !c.HasCredential() {
		return fmt.Errorf("the %s provider needs an API key", c.Provider)
	}
	return nil
}
