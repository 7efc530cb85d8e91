package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
	"quiz-seeder/internal/util"
)

// ConnectionCheckPrompt is sent once before any tier is generated.
const ConnectionCheckPrompt = `Say "test"`

// seedService implements the domain.SeedService interface.
type seedService struct {
	llm          port.TextGenerator
	generator    domain.QuestionGenerationService
	inserter     domain.QuestionInserter
	questionRepo domain.QuestionRepository
	progress     domain.ProgressReporter
	checkTimeout time.Duration
	queryTimeout time.Duration
	newRunID     func() string
	logger       *zap.Logger
}

// NewSeedService creates a new instance of seedService.
// checkTimeout bounds the connection check request and queryTimeout each
// bookkeeping query; zero disables a bound.
func NewSeedService(
	llm port.TextGenerator,
	generator domain.QuestionGenerationService,
	inserter domain.QuestionInserter,
	questionRepo domain.QuestionRepository,
	progress domain.ProgressReporter,
	checkTimeout time.Duration,
	queryTimeout time.Duration,
	logger *zap.Logger,
) domain.SeedService {
	return &seedService{
		llm:          llm,
		generator:    generator,
		inserter:     inserter,
		questionRepo: questionRepo,
		progress:     progress,
		checkTimeout: checkTimeout,
		queryTimeout: queryTimeout,
		newRunID:     util.NewULID,
		logger:       logger,
	}
}

// Run generates then inserts each tier in order. The first failure stops the run;
// tiers already finished stay in the database.
func (s *seedService) Run(ctx context.Context, tiers []domain.TierConfig) (*domain.SeedReport, error) {
	report := &domain.SeedReport{RunID: s.newRunID()}
	l := s.logger.With(zap.String("run_id", report.RunID))

	if len(tiers) == 0 {
		return report, domain.NewInvalidInputError("no tiers to seed")
	}

	total := 0
	for _, tier := range tiers {
		l.Info("Configured tier",
			zap.String("difficulty", tier.Difficulty.String()),
			zap.Int("count", tier.TargetCount),
			zap.Int("grade", tier.GradeLevel),
			zap.String("quiz_id", tier.QuizID))
		total += tier.TargetCount
	}
	l.Info("Starting question seeding", zap.Int("tiers", len(tiers)), zap.Int("total", total), zap.String("model", s.llm.ModelID()))

	if err := s.checkConnection(ctx); err != nil {
		l.Error("Connection check failed", zap.Error(err))
		return report, fmt.Errorf("connection check failed: %w", err)
	}
	l.Info("Connection check passed")

	for i := range tiers {
		report.Tiers = append(report.Tiers, domain.TierProgress{
			RunID:      report.RunID,
			Difficulty: tiers[i].Difficulty,
			Phase:      domain.PhasePending,
			Target:     tiers[i].TargetCount,
		})
		s.report(ctx, l, report.Tiers[i])
	}

	for i, tier := range tiers {
		progress := &report.Tiers[i]
		err := s.runTier(ctx, l, tier, progress)
		report.Inserted += progress.Inserted
		if err != nil {
			progress.Phase = domain.PhaseFailed
			progress.Error = asDomainError(err)
			s.report(ctx, l, *progress)
			return report, fmt.Errorf("seed %s tier: %w", tier.Difficulty, err)
		}
	}

	l.Info("All questions have been generated and seeded", zap.Int("inserted", report.Inserted))
	return report, nil
}

func (s *seedService) runTier(ctx context.Context, l *zap.Logger, tier domain.TierConfig, progress *domain.TierProgress) error {
	l = l.With(zap.String("difficulty", tier.Difficulty.String()))
	l.Info("Processing tier")

	existing, err := s.countExisting(ctx, tier)
	if err != nil {
		return err
	}
	if existing > 0 {
		l.Warn("Quiz already has questions of this difficulty, new rows are appended and order numbers restart at 1",
			zap.Int("existing", existing))
	}

	progress.Phase = domain.PhaseGenerating
	s.report(ctx, l, *progress)

	records, err := s.generator.GenerateQuestions(ctx, tier)
	if err != nil {
		return err
	}
	progress.Generated = len(records)
	progress.Phase = domain.PhaseInserting
	s.report(ctx, l, *progress)

	inserted, err := s.inserter.InsertQuestions(ctx, records, tier.Difficulty, tier.QuizID)
	progress.Inserted = inserted
	if err != nil {
		return err
	}

	if err := s.refreshTotal(ctx, tier.QuizID); err != nil {
		l.Warn("Failed to refresh quiz total", zap.Error(err))
	}

	progress.Phase = domain.PhaseDone
	s.report(ctx, l, *progress)
	l.Info("Tier complete", zap.Int("generated", progress.Generated), zap.Int("inserted", progress.Inserted))
	return nil
}

func (s *seedService) checkConnection(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.checkTimeout)
	defer cancel()
	_, err := s.llm.Generate(ctx, "", ConnectionCheckPrompt)
	return err
}

func (s *seedService) countExisting(ctx context.Context, tier domain.TierConfig) (int, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.questionRepo.CountByQuiz(ctx, tier.QuizID, tier.Difficulty)
}

func (s *seedService) refreshTotal(ctx context.Context, quizID string) error {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.questionRepo.RefreshQuizTotal(ctx, quizID)
}

// withTimeout bounds ctx by d; d <= 0 leaves it unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// report records progress; failures are logged and never stop the run.
func (s *seedService) report(ctx context.Context, l *zap.Logger, p domain.TierProgress) {
	p.UpdatedAt = time.Now().UTC()
	if err := s.progress.Report(ctx, p); err != nil {
		l.Warn("Failed to record progress", zap.String("phase", string(p.Phase)), zap.Error(err))
	}
}

func asDomainError(err error) *domain.DomainError {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	return domain.NewInternalError("seeding aborted", err)
}
