package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// MockLLM answers without calling any provider. Used in local mode and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(_ context.Context, req domain.GenerationRequest) (string, error) {
	question := req.Prompt
	if i := strings.Index(question, "\n\n"); i > 0 && strings.HasPrefix(question, "Subject Focus:") {
		question = question[i+2:]
	}
	return fmt.Sprintf("Great question! You asked: %q. Let's break it down step by step. Does that make sense?", firstLine(question)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
