package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"quiz-seeder/internal/domain"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func TestNewOllamaGenerator(t *testing.T) {
	t.Run("empty server URL", func(t *testing.T) {
		_, err := NewOllamaGenerator(Options{Model: "llama3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ollama server URL cannot be empty")
	})

	t.Run("empty model name", func(t *testing.T) {
		_, err := NewOllamaGenerator(Options{BaseURL: "http://localhost:11434"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ollama model name cannot be empty")
	})
}

func TestOllamaGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	expectedMessages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "json only"),
		llms.TextParts(llms.ChatMessageTypeHuman, "make questions"),
	}

	t.Run("success", func(t *testing.T) {
		mockLLM := new(MockContentGenerator)
		g := &OllamaGenerator{llm: mockLLM, model: "llama3"}
		mockLLM.On("GenerateContent", ctx, expectedMessages).
			Return(&llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "[]"}}}, nil).Once()

		text, err := g.Generate(ctx, "json only", "make questions")
		assert.NoError(t, err)
		assert.Equal(t, "[]", text)
		mockLLM.AssertExpectations(t)
	})

	t.Run("no choices", func(t *testing.T) {
		mockLLM := new(MockContentGenerator)
		g := &OllamaGenerator{llm: mockLLM, model: "llama3"}
		mockLLM.On("GenerateContent", ctx, expectedMessages).
			Return(&llms.ContentResponse{}, nil).Once()

		_, err := g.Generate(ctx, "json only", "make questions")
		assert.Equal(t, domain.ErrMalformedResponse, domain.CodeOf(err))
	})

	t.Run("client error", func(t *testing.T) {
		mockLLM := new(MockContentGenerator)
		g := &OllamaGenerator{llm: mockLLM, model: "llama3"}
		mockLLM.On("GenerateContent", ctx, expectedMessages).
			Return(nil, errors.New("connection refused")).Once()

		_, err := g.Generate(ctx, "json only", "make questions")
		assert.Equal(t, domain.ErrTransport, domain.CodeOf(err))
		assert.False(t, domain.IsRateLimited(err))
	})

	t.Run("deadline", func(t *testing.T) {
		mockLLM := new(MockContentGenerator)
		g := &OllamaGenerator{llm: mockLLM, model: "llama3"}
		mockLLM.On("GenerateContent", ctx, expectedMessages).
			Return(nil, context.DeadlineExceeded).Once()

		_, err := g.Generate(ctx, "json only", "make questions")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, domain.ErrTransport, domain.CodeOf(err))
	})
}
