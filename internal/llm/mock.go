package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of a Response.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockText scripts a plain text reply.
func MockText(text string) MockResponse {
	return MockResponse{Content: json.RawMessage(text)}
}

// MockProvider replays scripted replies in order and records every
// request in Calls. Once the script runs out each call fails with
// ErrProviderUnavailable, so "mock" with no script behaves like a
// provider that is down and callers take their offline path.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, r)
	m.mu.Unlock()
}

// CallCount counts Generate and Stream calls, failed ones included.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	r, err := m.pop(req)
	if err != nil {
		return nil, err
	}
	out := &Response{Content: r.Content, Usage: r.Usage, Model: "mock", StopReason: r.StopReason}
	if out.StopReason == "" {
		out.StopReason = "end"
	}
	return out, nil
}

// Stream replays the next reply one word at a time.
func (m *MockProvider) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	r, err := m.pop(req)
	if err != nil {
		return err
	}
	sep := ""
	for _, w := range strings.Fields(string(r.Content)) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := onDelta(sep + w); err != nil {
			return err
		}
		sep = " "
	}
	return nil
}

func (m *MockProvider) pop(req Request) (MockResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		return MockResponse{}, &ErrProviderUnavailable{}
	}
	r := m.script[0]
	m.script = m.script[1:]
	return r, r.Err
}
