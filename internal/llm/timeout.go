package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds every Generate and Stream call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each request is cancelled after d.
// A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

// Stream bounds a whole streamed reply with the same deadline.
func (t *TimeoutProvider) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return streamInner(ctx, t.inner, req, onDelta)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

// Unwrap returns the wrapped provider.
func (t *TimeoutProvider) Unwrap() Provider {
	return t.inner
}
