package llm

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

const mockModel = "mock"

// MockResponse is one scripted reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and remembers every request
// it saw. When the script runs out it calls Fallback, or reports the
// provider as unavailable when Fallback is nil.
type MockProvider struct {
	Fallback func(Request) (json.RawMessage, error)

	mu       sync.Mutex
	script   []MockResponse
	requests []Request
}

// NewMockProvider returns a MockProvider that replays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	var next MockResponse
	scripted := len(m.script) > 0
	if scripted {
		next, m.script = m.script[0], m.script[1:]
	}
	fallback := m.Fallback
	m.mu.Unlock()

	if !scripted {
		if fallback == nil {
			return nil, &ErrProviderUnavailable{}
		}
		content, err := fallback(req)
		if err != nil {
			return nil, err
		}
		next = MockResponse{Content: content}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      mockModel,
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) ModelID() string {
	return mockModel
}

// Push appends replies to the script.
func (m *MockProvider) Push(replies ...MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, replies...)
	m.mu.Unlock()
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
