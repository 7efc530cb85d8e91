package textgen

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

var _ port.TextGenerator = (*GeminiGenerator)(nil)

// GeminiGenerator calls the Gemini generateContent API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiGenerator(ctx context.Context, opts Options) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, domain.NewInvalidInputError("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, domain.NewInternalError("create Gemini client", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       opts.Model,
		temperature: float32(opts.Temperature),
		maxTokens:   int32(opts.MaxTokens),
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: g.maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", mapGeminiError(err)
	}
	if len(result.Candidates) == 0 {
		return "", domain.NewMalformedResponseError("no candidates in Gemini response", nil)
	}
	return result.Text(), nil
}

func (g *GeminiGenerator) ModelID() string {
	return g.model
}

func mapGeminiError(err error) error {
	if ctxErr := contextError("gemini", err); ctxErr != nil {
		return ctxErr
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return domain.NewUpstreamError(apiErrPtr.Code, fmt.Sprintf("gemini API error (status %d)", apiErrPtr.Code), err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewUpstreamError(apiErr.Code, fmt.Sprintf("gemini API error (status %d)", apiErr.Code), err)
	}
	return domain.NewUpstreamError(0, "gemini request failed", err)
}
