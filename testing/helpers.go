// Package testing provides test utilities for lazysearch chains.
//
// MockStage records every call it receives, which makes the laziness of a
// chain observable: a stage that was never searched was never called.
//
// Example usage:
//
//	func TestPriceLookup(t *testing.T) {
//		tax := testing.NewMockStage[int](t, "tax").WithFunc(func(v int) int { return v + 1 })
//		chain := lazysearch.New("prices", []int{10, 20}).Then(tax.Stage())
//
//		testing.AssertNotCalled(t, tax)
//		testing.AssertFound(t, chain, 21, 1)
//		testing.AssertCalled(t, tax, 2)
//	}
package testing

import (
	"sync"
	"testing"

	"github.com/zoobzio/lazysearch"
)

// MockStage provides a configurable transformation for tests. It tracks
// calls and can be configured to transform, return a fixed value or panic.
type MockStage[T any] struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	fn          func(T) T
	panicMsg    string
	calls       int
	mu          sync.RWMutex
	callHistory []T
	maxHistory  int
}

// NewMockStage creates a new mock stage. Without configuration it returns
// its input unchanged.
func NewMockStage[T any](t *testing.T, name string) *MockStage[T] {
	return &MockStage[T]{
		t:          t,
		name:       name,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// WithFunc configures the transformation applied on each call.
func (m *MockStage[T]) WithFunc(fn func(T) T) *MockStage[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// WithReturn configures the mock to return val for every call.
func (m *MockStage[T]) WithReturn(val T) *MockStage[T] {
	return m.WithFunc(func(T) T { return val })
}

// WithPanic configures the mock to panic with msg.
func (m *MockStage[T]) WithPanic(msg string) *MockStage[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize sets how many inputs are remembered. Zero or a negative
// size keeps none.
func (m *MockStage[T]) WithHistorySize(size int) *MockStage[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	size = max(size, 0)
	m.maxHistory = size
	if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the stage name.
func (m *MockStage[T]) Name() lazysearch.Name {
	return m.name
}

// Stage returns a lazysearch stage backed by the mock.
func (m *MockStage[T]) Stage() lazysearch.Stage[T] {
	return lazysearch.Transform(m.name, m.apply)
}

func (m *MockStage[T]) apply(value T) T {
	m.mu.Lock()
	if m.maxHistory > 0 {
		if len(m.callHistory) >= m.maxHistory {
			m.callHistory = m.callHistory[1:]
		}
		m.callHistory = append(m.callHistory, value)
	}
	m.calls++
	fn := m.fn
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if fn == nil {
		return value
	}
	return fn(value)
}

// CallCount returns the number of times the stage was applied.
func (m *MockStage[T]) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// LastInput returns the most recent input, or the zero value.
func (m *MockStage[T]) LastInput() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.callHistory) == 0 {
		var zero T
		return zero
	}
	return m.callHistory[len(m.callHistory)-1]
}

// CallHistory returns a copy of the remembered inputs, oldest first.
func (m *MockStage[T]) CallHistory() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]T, len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears the call count and history.
func (m *MockStage[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = 0
	m.callHistory = nil
}

// AssertCalled verifies that a mock stage was applied exactly expectedCalls times.
func AssertCalled[T any](t *testing.T, mock *MockStage[T], expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock stage %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotCalled verifies that a mock stage was never applied.
func AssertNotCalled[T any](t *testing.T, mock *MockStage[T]) {
	t.Helper()
	AssertCalled(t, mock, 0)
}

// AssertCalledWith verifies the most recent input of a mock stage.
func AssertCalledWith[T comparable](t *testing.T, mock *MockStage[T], expectedInput T) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock stage %s to be called with input %v, but it was never called",
			mock.name, expectedInput)
		return
	}

	actualInput := mock.LastInput()
	if actualInput != expectedInput {
		t.Errorf("expected mock stage %s to be called with input %v, but was called with %v",
			mock.name, expectedInput, actualInput)
	}
}

// AssertFound verifies that searching chain for target returns index.
func AssertFound[T any](t *testing.T, chain *lazysearch.Chain[T], target T, index int) {
	t.Helper()
	if got := chain.Search(target); got != index {
		t.Errorf("expected chain %s to find %v at %d, got %d", chain.Name(), target, index, got)
	}
}

// AssertNotFound verifies that searching chain for target returns NotFound.
func AssertNotFound[T any](t *testing.T, chain *lazysearch.Chain[T], target T) {
	t.Helper()
	if got := chain.Search(target); got != lazysearch.NotFound {
		t.Errorf("expected chain %s not to find %v, got index %d", chain.Name(), target, got)
	}
}
