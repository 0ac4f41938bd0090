// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
)

// MockClient implements llm.Client with overridable funcs. It records every
// ChatRequest it receives.
type MockClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	ChatFunc         func(ctx context.Context, req *llm.ChatRequest) (*llm.Message, error)
	GetModelFunc     func(tier llm.ModelTier) string
	CloseFunc        func() error

	mu       sync.Mutex
	requests []*llm.ChatRequest
}

// GenerateJSON implements llm.Client.
func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

// Chat implements llm.Client.
func (m *MockClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Message, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return &llm.Message{Role: llm.RoleModel, Text: "ok"}, nil
}

// GetModel implements llm.Client.
func (m *MockClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

// Close implements llm.Client.
func (m *MockClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Requests returns the chat requests received so far.
func (m *MockClient) Requests() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.ChatRequest(nil), m.requests...)
}

// Reply returns a ChatFunc answering every request with text.
func Reply(text string) func(context.Context, *llm.ChatRequest) (*llm.Message, error) {
	return func(context.Context, *llm.ChatRequest) (*llm.Message, error) {
		return &llm.Message{Role: llm.RoleModel, Text: text}, nil
	}
}

// CallTool returns a ChatFunc answering every request with a single tool call.
func CallTool(name string, args map[string]any) func(context.Context, *llm.ChatRequest) (*llm.Message, error) {
	return func(context.Context, *llm.ChatRequest) (*llm.Message, error) {
		return &llm.Message{Role: llm.RoleModel, ToolCalls: []llm.ToolCall{{Name: name, Args: args}}}, nil
	}
}
