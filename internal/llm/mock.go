package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable Client for tests.
// Set CompleteFunc to control behavior; calls are recorded.
type MockClient struct {
	CompleteFunc func(ctx context.Context, req Request) (string, error)
	ModelName    string

	mu    sync.Mutex
	calls []Request
}

// NewMockClient creates a mock answering with CompleteFunc.
func NewMockClient(fn func(ctx context.Context, req Request) (string, error)) *MockClient {
	return &MockClient{CompleteFunc: fn, ModelName: "mock-model"}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

// Model implements Client.
func (m *MockClient) Model() string { return m.ModelName }

// Calls returns the recorded requests.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ Client = (*MockClient)(nil)
var _ Client = (*OpenAIClient)(nil)
var _ Client = (*AnthropicClient)(nil)
