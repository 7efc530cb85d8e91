package quizgen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-seeder/internal/config"
	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
	"quiz-seeder/internal/util"
)

// Static assertion to ensure ChunkedQuizGenerator implements QuestionGenerationService
var _ domain.QuestionGenerationService = (*ChunkedQuizGenerator)(nil)

// ChunkedQuizGenerator asks the model for a tier's questions a few at a time.
type ChunkedQuizGenerator struct {
	llm            port.TextGenerator
	opts           config.SeedConfig
	requestTimeout time.Duration
	sleep          util.Sleeper
	logger         *zap.Logger
}

// Option customizes a ChunkedQuizGenerator.
type Option func(*ChunkedQuizGenerator)

// WithSleeper replaces the real-clock pacing.
func WithSleeper(s util.Sleeper) Option {
	return func(g *ChunkedQuizGenerator) { g.sleep = s }
}

// NewChunkedQuizGenerator creates a generator. requestTimeout bounds each model call;
// zero disables the per-call bound.
func NewChunkedQuizGenerator(llm port.TextGenerator, opts config.SeedConfig, requestTimeout time.Duration, logger *zap.Logger, options ...Option) (*ChunkedQuizGenerator, error) {
	if llm == nil {
		return nil, domain.NewInvalidInputError("text generator cannot be nil")
	}
	if opts.ChunkSize <= 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("chunk size must be positive, got %d", opts.ChunkSize))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &ChunkedQuizGenerator{
		llm:            llm,
		opts:           opts,
		requestTimeout: requestTimeout,
		sleep:          util.SleepContext,
		logger:         logger,
	}
	for _, o := range options {
		o(g)
	}
	return g, nil
}

// GenerateQuestions implements domain.QuestionGenerationService.
func (g *ChunkedQuizGenerator) GenerateQuestions(ctx context.Context, tier domain.TierConfig) ([]domain.QuestionRecord, error) {
	chunks := domain.ChunkSizes(tier.TargetCount, g.opts.ChunkSize)
	l := g.logger.With(
		zap.String("difficulty", tier.Difficulty.String()),
		zap.Int("grade", tier.GradeLevel),
		zap.String("model", g.llm.ModelID()),
	)
	l.Info("Generating questions",
		zap.Int("target", tier.TargetCount),
		zap.Int("chunks", len(chunks)))

	all := make([]domain.QuestionRecord, 0, tier.TargetCount)
	for i, size := range chunks {
		chunkLog := l.With(zap.Int("chunk", i+1), zap.Int("of", len(chunks)))
		chunkLog.Info("Requesting chunk", zap.Int("requested", size))

		records, err := g.generateChunk(ctx, tier, size, chunkLog)
		if err != nil {
			chunkLog.Error("Chunk failed, aborting tier", zap.Error(err))
			return nil, err
		}
		if len(records) != size {
			chunkLog.Warn("Model returned a different number of questions than requested",
				zap.Int("requested", size),
				zap.Int("returned", len(records)))
		}
		chunkLog.Info("Chunk generated", zap.Int("returned", len(records)))
		all = append(all, records...)

		if i < len(chunks)-1 && g.opts.InterChunkDelay > 0 {
			chunkLog.Debug("Waiting before next chunk", zap.Duration("delay", g.opts.InterChunkDelay))
			if err := g.sleep(ctx, g.opts.InterChunkDelay); err != nil {
				return nil, err
			}
		}
	}

	l.Info("Finished generating questions", zap.Int("generated", len(all)))
	return all, nil
}

// generateChunk requests one chunk, retrying only on rate limits.
func (g *ChunkedQuizGenerator) generateChunk(ctx context.Context, tier domain.TierConfig, size int, l *zap.Logger) ([]domain.QuestionRecord, error) {
	prompt := BuildQuestionPrompt(tier, size)

	for attempt := 0; ; attempt++ {
		records, err := g.requestChunk(ctx, prompt)
		if err == nil {
			if attempt > 0 {
				l.Info("Retry succeeded", zap.Int("attempt", attempt+1))
			}
			return records, nil
		}
		if !domain.IsRateLimited(err) || attempt >= g.opts.RetryLimit {
			return nil, err
		}

		l.Warn("Rate limited, cooling down before retry",
			zap.Duration("cooldown", g.opts.RateLimitCooldown),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if err := g.sleep(ctx, g.opts.RateLimitCooldown); err != nil {
			return nil, err
		}
	}
}

func (g *ChunkedQuizGenerator) requestChunk(ctx context.Context, prompt string) ([]domain.QuestionRecord, error) {
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	raw, err := g.llm.Generate(ctx, SystemInstruction, prompt)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(raw)
}
