package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testRetry(p Provider, cfg RetryConfig) Provider {
	return WithRetry(p, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	okReply     = MockResponse{Content: json.RawMessage(`{"summary":"Solid session."}`)}
	downReply   = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	badReply    = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("not json")}}
	authReply   = MockResponse{Err: &ErrAuthentication{Err: errors.New("401")}}
	truncReply  = MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"summ`)}}
	limitedOnce = MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}
)

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RetryConfig
		replies   []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", fastRetry(), []MockResponse{okReply}, false, 1},
		{"transient then success", fastRetry(), []MockResponse{downReply, okReply}, false, 2},
		{"rate limit honors retry-after", fastRetry(), []MockResponse{limitedOnce, okReply}, false, 2},
		{"all attempts fail", fastRetry(), []MockResponse{downReply, downReply, downReply, okReply}, true, 3},
		{"malformed reply retried once", fastRetry(), []MockResponse{badReply, badReply, okReply}, true, 2},
		{"malformed then success", fastRetry(), []MockResponse{badReply, okReply}, false, 2},
		{"auth not retried", fastRetry(), []MockResponse{authReply, okReply}, true, 1},
		{"truncation not retried", fastRetry(), []MockResponse{truncReply, okReply}, true, 1},
		{"zero attempts still calls once", RetryConfig{}, []MockResponse{okReply}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			_, err := testRetry(mock, tt.cfg).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_KeepsTypedError(t *testing.T) {
	mock := NewMockProvider(authReply)
	_, err := testRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var auth *ErrAuthentication
	if !errors.As(err, &auth) {
		t.Fatalf("expected ErrAuthentication, got %T", err)
	}
}

func TestRetry_StopsWhenContextCancelled(t *testing.T) {
	mock := NewMockProvider(downReply, downReply, okReply)
	p := testRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() > 1 {
		t.Fatalf("calls = %d, want at most 1", mock.CallCount())
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 10}}
	for attempt := range 4 {
		wait := r.backoff(attempt, errors.New("down"))
		if wait > 1200*time.Millisecond {
			t.Fatalf("attempt %d: wait %s exceeds cap plus jitter", attempt, wait)
		}
	}
	if got := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Fatalf("retry-after not honored: %s", got)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := testRetry(NewMockProvider(), fastRetry()).ModelID(); got != "mock" {
		t.Fatalf("ModelID() = %q, want mock", got)
	}
}
