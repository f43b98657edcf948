package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("upstream")

	tests := []struct {
		status int
		want   any
	}{
		{http.StatusUnauthorized, &ErrAuthentication{}},
		{http.StatusForbidden, &ErrAuthentication{}},
		{http.StatusTooManyRequests, &ErrRateLimit{}},
		{http.StatusInternalServerError, &ErrProviderUnavailable{}},
		{http.StatusBadGateway, &ErrProviderUnavailable{}},
		{0, &ErrProviderUnavailable{}},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, nil, cause)
		assert.IsType(t, tt.want, err, "status %d", tt.status)
		assert.ErrorIs(t, err, cause)
	}
}

func TestRetryAfter(t *testing.T) {
	for raw, want := range map[string]time.Duration{
		"3":                             3 * time.Second,
		"":                              0,
		"-1":                            0,
		"Wed, 21 Oct 2026 07:28:00 GMT": 0,
	} {
		h := http.Header{}
		if raw != "" {
			h.Set("Retry-After", raw)
		}
		assert.Equal(t, want, retryAfter(h), "Retry-After %q", raw)
	}
	assert.Zero(t, retryAfter(nil))

	var rl *ErrRateLimit
	h := http.Header{"Retry-After": []string{"12"}}
	if assert.ErrorAs(t, classifyStatus(http.StatusTooManyRequests, h, nil), &rl) {
		assert.Equal(t, 12*time.Second, rl.RetryAfter)
	}
}
