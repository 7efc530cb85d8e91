package textgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-seeder/internal/config"
	"quiz-seeder/internal/domain"
)

func TestNewForModel(t *testing.T) {
	ctx := context.Background()

	t.Run("openai default model", func(t *testing.T) {
		g, err := New(ctx, config.LLMConfig{Provider: "openai", OpenAIAPIKey: "k", MaxTokens: 10})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIGenerator{}, g)
		assert.Equal(t, "gpt-3.5-turbo", g.ModelID())
	})

	t.Run("anthropic explicit model", func(t *testing.T) {
		g, err := New(ctx, config.LLMConfig{Provider: "anthropic", AnthropicAPIKey: "k", Model: "claude-x", MaxTokens: 10})
		require.NoError(t, err)
		assert.IsType(t, &AnthropicGenerator{}, g)
		assert.Equal(t, "claude-x", g.ModelID())
	})

	t.Run("factory overrides model", func(t *testing.T) {
		factory := Factory(config.LLMConfig{Provider: "gemini", GeminiAPIKey: "k", Model: "gemini-pro", MaxTokens: 10})
		g, err := factory(ctx, "models/gemini-1.5-pro")
		require.NoError(t, err)
		assert.IsType(t, &GeminiGenerator{}, g)
		assert.Equal(t, "models/gemini-1.5-pro", g.ModelID())
	})

	t.Run("ollama uses server", func(t *testing.T) {
		g, err := New(ctx, config.LLMConfig{Provider: "ollama", OllamaServer: "http://localhost:11434"})
		require.NoError(t, err)
		assert.Equal(t, "llama3", g.ModelID())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := New(ctx, config.LLMConfig{Provider: "gemini"})
		assert.Equal(t, domain.ErrInvalidInput, domain.CodeOf(err))
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(ctx, config.LLMConfig{Provider: "bard"})
		assert.Equal(t, domain.ErrInvalidInput, domain.CodeOf(err))
	})
}
