package textgen

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

var _ port.TextGenerator = (*OllamaGenerator)(nil)

// contentGenerator is the subset of llms.Model used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OllamaGenerator talks to a local Ollama server through langchaingo.
// Ollama reports no HTTP status through langchaingo, so failures are never RATE_LIMITED.
type OllamaGenerator struct {
	llm         contentGenerator
	model       string
	temperature float64
	maxTokens   int
}

func NewOllamaGenerator(opts Options) (*OllamaGenerator, error) {
	if opts.BaseURL == "" {
		return nil, domain.NewInvalidInputError("ollama server URL cannot be empty")
	}
	if opts.Model == "" {
		return nil, domain.NewInvalidInputError("ollama model name cannot be empty")
	}

	llm, err := ollama.New(
		ollama.WithModel(opts.Model),
		ollama.WithServerURL(opts.BaseURL),
	)
	if err != nil {
		return nil, domain.NewInternalError("create ollama client", err)
	}

	return &OllamaGenerator{
		llm:         llm,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := g.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		if ctxErr := contextError("ollama", err); ctxErr != nil {
			return "", ctxErr
		}
		return "", domain.NewUpstreamError(0, "ollama request failed", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewMalformedResponseError("no choices in ollama response", nil)
	}
	return resp.Choices[0].Content, nil
}

func (g *OllamaGenerator) ModelID() string {
	return g.model
}
