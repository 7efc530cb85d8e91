package domain

import (
	"context"
	"time"
)

// QuestionGenerationService produces the questions for one difficulty tier.
type QuestionGenerationService interface {
	// GenerateQuestions returns the tier's records in chunk order.
	// On failure no partial output is returned.
	GenerateQuestions(ctx context.Context, tier TierConfig) ([]QuestionRecord, error)
}

// QuestionRepository persists generated questions.
type QuestionRepository interface {
	// InsertBatch writes all rows in a single statement.
	InsertBatch(ctx context.Context, rows []InsertRow) error
	CountByQuiz(ctx context.Context, quizID string, difficulty Difficulty) (int, error)
	// RefreshQuizTotal sets the quiz's total_questions to its current question count.
	RefreshQuizTotal(ctx context.Context, quizID string) error
}

// QuestionInserter writes a tier's records to the question store in batches.
type QuestionInserter interface {
	// InsertQuestions returns the number of rows written, including when it fails part way.
	InsertQuestions(ctx context.Context, records []QuestionRecord, difficulty Difficulty, quizID string) (int, error)
}

// SeedService runs the generate-then-insert pipeline for every configured tier.
type SeedService interface {
	Run(ctx context.Context, tiers []TierConfig) (*SeedReport, error)
}

// SeedPhase is the step a tier has reached in a seeding run.
type SeedPhase string

const (
	PhasePending    SeedPhase = "pending"
	PhaseGenerating SeedPhase = "generating"
	PhaseInserting  SeedPhase = "inserting"
	PhaseDone       SeedPhase = "done"
	PhaseFailed     SeedPhase = "failed"
)

// TierProgress is a point-in-time snapshot of one tier.
type TierProgress struct {
	RunID      string       `json:"runId"`
	Difficulty Difficulty   `json:"difficulty"`
	Phase      SeedPhase    `json:"phase"`
	Target     int          `json:"target"`
	Generated  int          `json:"generated"`
	Inserted   int          `json:"inserted"`
	Error      *DomainError `json:"error,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ProgressReporter records tier progress somewhere an operator can look at it.
type ProgressReporter interface {
	Report(ctx context.Context, progress TierProgress) error
	// Snapshot returns the latest progress of every tier of a run, keyed by difficulty.
	Snapshot(ctx context.Context, runID string) (map[Difficulty]TierProgress, error)
}

// SeedReport summarizes a finished (or aborted) seeding run.
type SeedReport struct {
	RunID    string
	Tiers    []TierProgress
	Inserted int
}

// ModelProbe tries candidate model names until one answers.
type ModelProbe interface {
	Probe(ctx context.Context, models []string) (*ProbeResult, error)
}

// ProbeAttempt is the outcome of one candidate model.
type ProbeAttempt struct {
	Model string
	Reply string
	Err   error
}

// ProbeResult lists every attempt made; Working is empty when all failed.
type ProbeResult struct {
	Working  string
	Attempts []ProbeAttempt
}
