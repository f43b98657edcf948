package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/interviewace/interviewace/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an
// event in the store and emits a structured log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.LLMEventRepo
	logger   *slog.Logger
}

// WithLogging wraps a Provider with event logging. events may be nil, in
// which case only the log line is written.
func WithLogging(p Provider, providerName string, events store.LLMEventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: providerName, events: events, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := l.event(ctx, req, start, err)
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	l.record(ctx, data, err)
	return resp, err
}

// Stream records one event per streamed reply. The response body is the
// concatenated deltas, including a partial reply cut short by an abort.
// Streaming APIs do not report usage here, so token counts stay zero.
func (l *LoggingProvider) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	start := time.Now()
	var text strings.Builder
	err := streamInner(ctx, l.inner, req, func(delta string) error {
		text.WriteString(delta)
		return onDelta(delta)
	})

	data := l.event(ctx, req, start, err)
	data.ResponseBody = text.String()
	l.record(ctx, data, err)
	return err
}

func (l *LoggingProvider) event(ctx context.Context, req Request, start time.Time, err error) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		SessionID:   SessionIDFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData, err error) {
	attrs := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", append(attrs, "error", err)...)
	} else {
		l.logger.DebugContext(ctx, "llm request", attrs...)
	}

	// Event persistence never fails the request.
	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.WarnContext(ctx, "failed to record llm request event", "error", logErr)
		}
	}
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// Unwrap returns the wrapped provider.
func (l *LoggingProvider) Unwrap() Provider {
	return l.inner
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if schemaDef, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
