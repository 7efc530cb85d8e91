package port

import "context"

// TextGenerator sends one prompt with a system instruction to a language model
// and returns the raw text of its reply.
// Failures are *domain.DomainError values classified as RATE_LIMITED,
// TRANSPORT_ERROR or MALFORMED_RESPONSE.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	ModelID() string
}

// TextGeneratorFactory builds a generator for a specific model name.
type TextGeneratorFactory func(ctx context.Context, model string) (TextGenerator, error)
