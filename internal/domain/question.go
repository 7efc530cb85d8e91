package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Difficulty is the tier label stored with every seeded question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a config or CLI value into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", NewInvalidInputError(fmt.Sprintf("unknown difficulty %q (want easy, medium or hard)", s))
	}
}

func (d Difficulty) String() string {
	return string(d)
}

// QuestionRecord is one multiple-choice question as returned by the language model.
// CorrectAnswer is expected to be one of A, B, C or D but that is not checked.
type QuestionRecord struct {
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// TierConfig describes one difficulty tier of a seeding run.
type TierConfig struct {
	Difficulty  Difficulty
	TargetCount int
	GradeLevel  int
	QuizID      string // destination quiz the questions belong to
}

// NewTierConfig validates and normalizes a tier definition.
func NewTierConfig(difficulty string, targetCount, gradeLevel int, quizID string) (TierConfig, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return TierConfig{}, err
	}
	if targetCount <= 0 {
		return TierConfig{}, NewInvalidInputError(fmt.Sprintf("target count for %s tier must be positive, got %d", d, targetCount))
	}
	id, err := uuid.Parse(quizID)
	if err != nil {
		return TierConfig{}, NewError(ErrInvalidInput, fmt.Sprintf("invalid quiz id %q for %s tier", quizID, d), err)
	}
	return TierConfig{
		Difficulty:  d,
		TargetCount: targetCount,
		GradeLevel:  gradeLevel,
		QuizID:      id.String(),
	}, nil
}

// InsertRow is the persisted projection of a QuestionRecord.
// OrderNum is 1-based and scoped to the tier.
type InsertRow struct {
	QuizID        string
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   string
	Difficulty    Difficulty
	OrderNum      int
}

// NewInsertRow projects a generated record onto the destination table shape.
func NewInsertRow(rec QuestionRecord, quizID string, difficulty Difficulty, orderNum int) InsertRow {
	return InsertRow{
		QuizID:        quizID,
		QuestionText:  rec.Question,
		OptionA:       rec.OptionA,
		OptionB:       rec.OptionB,
		OptionC:       rec.OptionC,
		OptionD:       rec.OptionD,
		CorrectAnswer: rec.CorrectAnswer,
		Explanation:   rec.Explanation,
		Difficulty:    difficulty,
		OrderNum:      orderNum,
	}
}

// ChunkSizes splits total into consecutive sizes of at most size.
// ChunkSizes(45, 20) == [20 20 5].
func ChunkSizes(total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	n := (total + size - 1) / size
	sizes := make([]int, 0, n)
	for start := 0; start < total; start += size {
		sizes = append(sizes, min(size, total-start))
	}
	return sizes
}
