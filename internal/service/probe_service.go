package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

// probeService implements the domain.ModelProbe interface.
type probeService struct {
	factory port.TextGeneratorFactory
	prompt  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProbeService creates a new instance of probeService.
func NewProbeService(factory port.TextGeneratorFactory, prompt string, timeout time.Duration, logger *zap.Logger) domain.ModelProbe {
	return &probeService{
		factory: factory,
		prompt:  prompt,
		timeout: timeout,
		logger:  logger,
	}
}

// Probe tries each model once, in order, and stops at the first that answers.
func (s *probeService) Probe(ctx context.Context, models []string) (*domain.ProbeResult, error) {
	if len(models) == 0 {
		return nil, domain.NewInvalidInputError("no candidate models to probe")
	}

	result := &domain.ProbeResult{}
	var errs []error
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		attempt := s.try(ctx, model)
		result.Attempts = append(result.Attempts, attempt)
		if attempt.Err == nil {
			s.logger.Info("Model responded", zap.String("model", model), zap.String("reply", attempt.Reply))
			result.Working = model
			return result, nil
		}
		s.logger.Warn("Model failed", zap.String("model", model), zap.Error(attempt.Err))
		errs = append(errs, fmt.Errorf("%s: %w", model, attempt.Err))
	}

	return result, domain.NewError(domain.ErrTransport,
		fmt.Sprintf("none of the %d candidate models responded", len(models)),
		errors.Join(errs...))
}

func (s *probeService) try(ctx context.Context, model string) domain.ProbeAttempt {
	s.logger.Info("Testing model", zap.String("model", model))

	gen, err := s.factory(ctx, model)
	if err != nil {
		return domain.ProbeAttempt{Model: model, Err: err}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := gen.Generate(ctx, "", s.prompt)
	return domain.ProbeAttempt{Model: model, Reply: reply, Err: err}
}
