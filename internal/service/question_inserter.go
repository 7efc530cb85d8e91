package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-seeder/internal/config"
	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/util"
)

// questionInserter implements the domain.QuestionInserter interface.
type questionInserter struct {
	repo         domain.QuestionRepository
	batchSize    int
	batchDelay   time.Duration
	queryTimeout time.Duration
	sleep        util.Sleeper
	logger       *zap.Logger
}

// NewQuestionInserter creates a new instance of questionInserter.
// queryTimeout bounds each batch statement; zero disables the bound.
func NewQuestionInserter(
	repo domain.QuestionRepository,
	opts config.SeedConfig,
	queryTimeout time.Duration,
	logger *zap.Logger,
) domain.QuestionInserter {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	return &questionInserter{
		repo:         repo,
		batchSize:    batchSize,
		batchDelay:   opts.InterBatchDelay,
		queryTimeout: queryTimeout,
		sleep:        util.SleepContext,
		logger:       logger,
	}
}

// InsertQuestions writes records in fixed-size batches with 1-based order numbers
// running across the whole tier. The first failing batch stops the run; earlier
// batches stay written and the count of written rows is returned with the error.
func (s *questionInserter) InsertQuestions(ctx context.Context, records []domain.QuestionRecord, difficulty domain.Difficulty, quizID string) (int, error) {
	batches := domain.ChunkSizes(len(records), s.batchSize)
	l := s.logger.With(zap.String("difficulty", difficulty.String()), zap.String("quiz_id", quizID))
	l.Info("Inserting questions", zap.Int("count", len(records)), zap.Int("batches", len(batches)))

	inserted := 0
	for b, size := range batches {
		start := inserted
		rows := make([]domain.InsertRow, size)
		for i := 0; i < size; i++ {
			rows[i] = domain.NewInsertRow(records[start+i], quizID, difficulty, start+i+1)
		}

		if err := s.insertBatch(ctx, rows); err != nil {
			if domain.CodeOf(err) != domain.ErrPersistence {
				err = domain.NewPersistenceError("failed to write questions", err)
			}
			l.Error("Failed to insert batch",
				zap.Int("batch", b+1),
				zap.Int("of", len(batches)),
				zap.Int("inserted_so_far", inserted),
				zap.Error(err))
			return inserted, fmt.Errorf("insert batch %d of %d: %w", b+1, len(batches), err)
		}
		inserted += size
		l.Info("Batch inserted",
			zap.Int("batch", b+1),
			zap.Int("of", len(batches)),
			zap.Int("total", inserted))

		if b < len(batches)-1 && s.batchDelay > 0 {
			if err := s.sleep(ctx, s.batchDelay); err != nil {
				return inserted, err
			}
		}
	}

	l.Info("Inserted all questions", zap.Int("inserted", inserted))
	return inserted, nil
}

func (s *questionInserter) insertBatch(ctx context.Context, rows []domain.InsertRow) error {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	return s.repo.InsertBatch(ctx, rows)
}
