package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
)

// MockGenerator stands in for *generation.Client in service tests.
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, sourceText string, count int) (*generation.Output, error)

	// Default response values
	Flashcards []domain.AIFlashcard
	ModelName  string
	Err        error

	mu    sync.Mutex
	calls int
}

// Generate returns GenerateFn's result or the default values.
func (m *MockGenerator) Generate(ctx context.Context, sourceText string, count int) (*generation.Output, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, sourceText, count)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &generation.Output{Flashcards: m.Flashcards, Model: m.Model()}, nil
}

// Model returns ModelName, or "mock-model" when unset.
func (m *MockGenerator) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Calls returns how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
