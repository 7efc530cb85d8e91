package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

var _ port.TextGenerator = (*AnthropicGenerator)(nil)

// AnthropicGenerator calls the Messages API.
type AnthropicGenerator struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewAnthropicGenerator(opts Options) (*AnthropicGenerator, error) {
	if opts.APIKey == "" {
		return nil, domain.NewInvalidInputError("anthropic API key is required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// retries belong to the seeding pipeline
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(reqOpts...)
	return &AnthropicGenerator{
		client:      &client,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   int64(opts.MaxTokens),
	}, nil
}

func (g *AnthropicGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if g.temperature > 0 {
		// the Messages API caps temperature at 1
		params.Temperature = anthropic.Float(min(g.temperature, 1))
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", mapAnthropicError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", domain.NewMalformedResponseError("no text content in Anthropic response", nil)
	}
	return sb.String(), nil
}

func (g *AnthropicGenerator) ModelID() string {
	return g.model
}

func mapAnthropicError(err error) error {
	if ctxErr := contextError("anthropic", err); ctxErr != nil {
		return ctxErr
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domain.NewUpstreamError(apiErr.StatusCode, fmt.Sprintf("anthropic API error (status %d)", apiErr.StatusCode), err)
	}
	return domain.NewUpstreamError(0, "anthropic request failed", err)
}
