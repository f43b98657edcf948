// Package interview is the interview flow controller: the state machine,
// the decision engine, the prompt builder and the orchestrators that
// combine the deterministic evaluator with an optional model call.
package interview

import (
	"context"
	"log/slog"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/questionbank"
)

// Source tags which path produced a result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// LLM purposes recorded on request events.
const (
	PurposeStart    = "interview-start"
	PurposeRespond  = "interview-respond"
	PurposeFeedback = "interview-feedback"
	PurposeReport   = "interview-report"
)

// Options configures an Orchestrator.
type Options struct {
	// AIEnabled turns on the single model call per turn. It has no effect
	// without a provider.
	AIEnabled bool

	MaxTokens   int
	Temperature float64

	Bank      *questionbank.Bank
	Evaluator *evaluator.Evaluator
	Logger    *slog.Logger
}

// DefaultOptions returns Options with AI enabled.
func DefaultOptions() Options {
	return Options{
		AIEnabled:   true,
		MaxTokens:   512,
		Temperature: 0.7,
	}
}

// Orchestrator runs interview turns. It holds no per-session state; the
// caller threads history, scores and state through every call.
type Orchestrator struct {
	provider llm.Provider
	opts     Options
	bank     *questionbank.Bank
	eval     *evaluator.Evaluator
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil provider or a false
// opts.AIEnabled restricts it to the deterministic path.
func NewOrchestrator(provider llm.Provider, opts Options) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		opts:     opts,
		bank:     opts.Bank,
		eval:     opts.Evaluator,
		logger:   opts.Logger,
	}
	if o.bank == nil {
		o.bank = questionbank.Default()
	}
	if o.eval == nil {
		o.eval = evaluator.New()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// AIEnabled reports whether turns attempt a model call.
func (o *Orchestrator) AIEnabled() bool {
	return o.opts.AIEnabled && o.provider != nil
}

// attempt makes exactly one model call and validates the reply. check
// may reject a schema-valid reply for semantic reasons by returning a
// non-empty reason. Any failure is logged and reported as !ok; the
// caller then takes its fallback path.
func attempt[T any](ctx context.Context, o *Orchestrator, purpose, sessionID, prompt string,
	schema *llm.Schema, check func(T) string) (T, bool) {
	var zero T
	if !o.AIEnabled() {
		return zero, false
	}

	ctx = llm.WithPurpose(ctx, purpose)
	if sessionID != "" {
		ctx = llm.WithSessionID(ctx, sessionID)
	}

	text, err := llm.Complete(ctx, o.provider, prompt, llm.CompleteOptions{
		System:      interviewerSystemPrompt,
		MaxTokens:   o.opts.MaxTokens,
		Temperature: o.opts.Temperature,
	})
	if err != nil {
		o.logger.WarnContext(ctx, "ai call failed, using fallback", "purpose", purpose, "error", err)
		return zero, false
	}

	reply := ParseReply[T](schema, text)
	v, ok := reply.Get()
	if ok && check != nil {
		if reason := check(v); reason != "" {
			reply = Invalid[T](reason)
			ok = false
		}
	}
	if !ok {
		o.logger.WarnContext(ctx, "ai reply rejected, using fallback", "purpose", purpose, "reason", reply.Reason())
		return zero, false
	}
	return v, true
}
