// Package textgen adapts the supported language model SDKs to port.TextGenerator.
package textgen

import (
	"context"
	"errors"
	"fmt"

	"quiz-seeder/internal/config"
	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

// defaultModels is used when llm.model is empty.
var defaultModels = map[string]string{
	"openai":    "gpt-3.5-turbo",
	"gemini":    "gemini-1.5-flash",
	"anthropic": "claude-3-5-haiku-latest",
	"ollama":    "llama3",
}

// Options carries the generation parameters shared by every provider.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// New returns a generator for the provider and model selected in cfg.
func New(ctx context.Context, cfg config.LLMConfig) (port.TextGenerator, error) {
	return NewForModel(ctx, cfg, cfg.Model)
}

// NewForModel is New with the model name overridden.
func NewForModel(ctx context.Context, cfg config.LLMConfig, model string) (port.TextGenerator, error) {
	if model == "" {
		model = defaultModels[cfg.Provider]
	}
	opts := Options{
		APIKey:      cfg.APIKey(),
		Model:       model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIGenerator(opts)
	case "gemini":
		return NewGeminiGenerator(ctx, opts)
	case "anthropic":
		return NewAnthropicGenerator(opts)
	case "ollama":
		if opts.BaseURL == "" {
			opts.BaseURL = cfg.OllamaServer
		}
		return NewOllamaGenerator(opts)
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported llm provider %q", cfg.Provider))
	}
}

// Factory binds cfg so callers can vary only the model name.
func Factory(cfg config.LLMConfig) port.TextGeneratorFactory {
	return func(ctx context.Context, model string) (port.TextGenerator, error) {
		return NewForModel(ctx, cfg, model)
	}
}

// contextError classifies a failure caused by the request context, if any.
func contextError(provider string, err error) *domain.DomainError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewUpstreamError(0, provider+" request timed out", err)
	case errors.Is(err, context.Canceled):
		return domain.NewUpstreamError(0, provider+" request canceled", err)
	}
	return nil
}
