package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/port"
)

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) InsertBatch(ctx context.Context, rows []domain.InsertRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountByQuiz(ctx context.Context, quizID string, difficulty domain.Difficulty) (int, error) {
	args := m.Called(ctx, quizID, difficulty)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) RefreshQuizTotal(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}

// --- MockQuestionGenerationService ---
type MockQuestionGenerationService struct {
	mock.Mock
}

func (m *MockQuestionGenerationService) GenerateQuestions(ctx context.Context, tier domain.TierConfig) ([]domain.QuestionRecord, error) {
	args := m.Called(ctx, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestionRecord), args.Error(1)
}

// --- MockQuestionInserter ---
type MockQuestionInserter struct {
	mock.Mock
}

func (m *MockQuestionInserter) InsertQuestions(ctx context.Context, records []domain.QuestionRecord, difficulty domain.Difficulty, quizID string) (int, error) {
	args := m.Called(ctx, records, difficulty, quizID)
	return args.Int(0), args.Error(1)
}

// --- MockProgressReporter ---
type MockProgressReporter struct {
	mock.Mock
}

func (m *MockProgressReporter) Report(ctx context.Context, progress domain.TierProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressReporter) Snapshot(ctx context.Context, runID string) (map[domain.Difficulty]domain.TierProgress, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Difficulty]domain.TierProgress), args.Error(1)
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
	model string
}

var _ port.TextGenerator = (*MockTextGenerator)(nil)

func (m *MockTextGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) ModelID() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}
