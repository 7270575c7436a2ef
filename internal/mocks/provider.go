package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/generation"
)

// ProviderResult is one scripted answer of MockProvider.
type ProviderResult struct {
	Completion *generation.Completion
	Err        error
}

// MockProvider implements generation.Provider for testing.
type MockProvider struct {
	// CompleteFn allows test cases to mock the Complete behavior.
	CompleteFn func(ctx context.Context, req generation.ChatRequest) (*generation.Completion, error)

	// Results are returned in order when CompleteFn is nil; the last one repeats.
	Results []ProviderResult

	ProviderName string

	mu       sync.Mutex
	requests []generation.ChatRequest
}

var _ generation.Provider = (*MockProvider)(nil)

// Name implements generation.Provider.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Complete implements generation.Provider.
func (m *MockProvider) Complete(ctx context.Context, req generation.ChatRequest) (*generation.Completion, error) {
	m.mu.Lock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	if len(m.Results) == 0 {
		return nil, nil
	}
	if call >= len(m.Results) {
		call = len(m.Results) - 1
	}
	r := m.Results[call]
	return r.Completion, r.Err
}

// Calls returns how many times Complete was called.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []generation.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]generation.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// NewMockProviderWithContent returns a provider answering every call with content.
func NewMockProviderWithContent(content string) *MockProvider {
	return &MockProvider{
		Results: []ProviderResult{{Completion: TextCompletion(content)}},
	}
}

// TextCompletion wraps content in a single-choice completion.
func TextCompletion(content string) *generation.Completion {
	return &generation.Completion{
		Model:   "mock-model",
		Choices: []generation.Choice{{Content: content, FinishReason: "stop"}},
	}
}

// RecordingSleeper is a generation.Sleeper that records requested delays without waiting.
type RecordingSleeper struct {
	mu     sync.Mutex
	Delays []time.Duration
	// Err is returned from every call when set.
	Err error
}

// Sleep implements generation.Sleeper.
func (s *RecordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delays = append(s.Delays, d)
	return s.Err
}

// Count returns the number of recorded sleeps.
func (s *RecordingSleeper) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Delays)
}
