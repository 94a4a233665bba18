package agent

import (
	"context"
	"fmt"

	"advisor/pkg/agent/llm"
)

// MockLLMClient provides a controllable implementation of llm.LLMClient for testing.
type MockLLMClient struct {
	responses     []llm.CompletionResponse
	responseIndex int
	errors        []error
	errorIndex    int
	requests      []llm.CompletionRequest
}

// NewMockLLMClient creates a new mock client with predefined responses.
func NewMockLLMClient(responses []llm.CompletionResponse, errors []error) *MockLLMClient {
	return &MockLLMClient{
		responses: responses,
		errors:    errors,
	}
}

// Complete returns the next predefined response or error.
func (m *MockLLMClient) Complete(_ context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	m.requests = append(m.requests, in)

	if m.errorIndex < len(m.errors) && m.errors[m.errorIndex] != nil {
		err := m.errors[m.errorIndex]
		m.errorIndex++
		return llm.CompletionResponse{}, err
	}
	if m.errorIndex < len(m.errors) {
		m.errorIndex++
	}

	if m.responseIndex >= len(m.responses) {
		return llm.CompletionResponse{}, fmt.Errorf("mock client exhausted: no response for request %d", m.responseIndex)
	}

	resp := m.responses[m.responseIndex]
	m.responseIndex++
	return resp, nil
}

// GetModelName returns a fixed mock model name.
func (m *MockLLMClient) GetModelName() string {
	return "mock-model"
}

// Requests returns all completion requests the mock has received.
func (m *MockLLMClient) Requests() []llm.CompletionRequest {
	return m.requests
}
