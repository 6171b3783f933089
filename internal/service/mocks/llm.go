package mocks

import (
	"context"
	"errors"

	"github.com/knakam/dance-analyzer/internal/llm"
)

// MockLLMClient is a func-field mock for the model client.
type MockLLMClient struct {
	AnalyzeFrameFunc func(ctx context.Context, req llm.Request) (string, error)
}

func (m *MockLLMClient) AnalyzeFrame(ctx context.Context, req llm.Request) (string, error) {
	if m.AnalyzeFrameFunc != nil {
		return m.AnalyzeFrameFunc(ctx, req)
	}
	return "", errors.New("AnalyzeFrameFunc not implemented")
}
