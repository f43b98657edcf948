package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit is an HTTP 429. RetryAfter is zero when the provider
// did not say.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("model rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("model rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse carries model output that failed to parse or did
// not match the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return withCause("unusable model reply", e.Err) }

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures, 5xx and any other
// status without a more specific type.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	return withCause("model provider unavailable", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrAuthentication is a 401 or 403. Retrying cannot help.
type ErrAuthentication struct {
	Err error
}

func (e *ErrAuthentication) Error() string {
	return withCause("model provider refused the API key", e.Err)
}

func (e *ErrAuthentication) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply was cut off at MaxTokens. Content
// holds the partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "model reply cut off at the token limit" }

var errStreamUnsupported = errors.New("provider does not stream")

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}

// classifyStatus maps an HTTP status from a provider SDK error to the
// typed errors the retry decorator and the orchestrators understand.
// header may be nil.
func classifyStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ErrAuthentication{Err: err}
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
