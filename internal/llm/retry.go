package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient errors with exponential backoff and
// jitter. Interview turns never go through it: they make one attempt and
// fall back. Only report generation is retried.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *slog.Logger
}

// WithRetry wraps a Provider with retry logic. A nil logger uses slog.Default.
func WithRetry(p Provider, cfg RetryConfig, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

type verdict int

const (
	giveUp verdict = iota
	retryTransient
	// retryOnce covers malformed replies: the model gets one more chance.
	retryOnce
)

func classifyRetry(err error) verdict {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, new(*ErrMaxTokensExceeded)), errors.As(err, new(*ErrAuthentication)):
		return giveUp
	case errors.As(err, new(*ErrInvalidResponse)):
		return retryOnce
	}
	return retryTransient
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	malformedSeen := false

	var lastErr error
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyRetry(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if malformedSeen {
				return nil, err
			}
			malformedSeen = true
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.logger.WarnContext(ctx, "llm request failed, retrying",
			"purpose", PurposeFrom(ctx),
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// Unwrap returns the wrapped provider.
func (r *RetryProvider) Unwrap() Provider {
	return r.inner
}

// backoff is InitialWait·Multiplier^attempt capped at MaxWait, with ±20%
// jitter. A provider supplied Retry-After wins.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := math.Min(
		float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)),
		float64(r.config.MaxWait),
	)
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}
