package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/interviewace/interviewace/internal/store"
)

// Providers bundles the decorator chains built over one base provider.
type Providers struct {
	// Interactive serves interview turns: a single attempt bounded by
	// the configured timeout. Callers fall back on any error.
	Interactive Provider

	// Background serves report generation, where latency matters less
	// than getting an answer: transient failures are retried.
	Background Provider
}

// NewProviders creates the provider chains from configuration.
//
//	Interactive: caller → timeout → logging → base
//	Background:  caller → retry → timeout → logging → base
func NewProviders(ctx context.Context, cfg Config, events store.LLMEventRepo, logger *slog.Logger) (*Providers, error) {
	base, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logged := WithLogging(base, cfg.Provider, events, logger)
	bounded := WithTimeout(logged, cfg.Timeout)

	return &Providers{
		Interactive: bounded,
		Background:  WithRetry(bounded, cfg.Retry, logger),
	}, nil
}

func newBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return base, nil
}
