package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		total, size int
		want        []int
	}{
		{45, 20, []int{20, 20, 5}},
		{40, 20, []int{20, 20}},
		{7, 20, []int{7}},
		{200, 20, []int{20, 20, 20, 20, 20, 20, 20, 20, 20, 20}},
		{0, 20, nil},
		{10, 0, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChunkSizes(tt.total, tt.size), "ChunkSizes(%d, %d)", tt.total, tt.size)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Medium ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, d)

	_, err = ParseDifficulty("expert")
	assert.Equal(t, ErrInvalidInput, CodeOf(err))
}

func TestNewTierConfig(t *testing.T) {
	tier, err := NewTierConfig("hard", 150, 10, "550E8400-E29B-41D4-A716-446655440003")
	require.NoError(t, err)
	assert.Equal(t, TierConfig{
		Difficulty:  DifficultyHard,
		TargetCount: 150,
		GradeLevel:  10,
		QuizID:      "550e8400-e29b-41d4-a716-446655440003",
	}, tier)

	_, err = NewTierConfig("easy", 0, 6, "550e8400-e29b-41d4-a716-446655440001")
	assert.Equal(t, ErrInvalidInput, CodeOf(err))

	_, err = NewTierConfig("easy", 10, 6, "not-a-uuid")
	assert.Equal(t, ErrInvalidInput, CodeOf(err))
}

func TestNewInsertRow(t *testing.T) {
	rec := QuestionRecord{
		Question:      "What is 5 + 3?",
		OptionA:       "6",
		OptionB:       "8",
		OptionC:       "9",
		OptionD:       "7",
		CorrectAnswer: "B",
		Explanation:   "5 + 3 = 8",
	}
	row := NewInsertRow(rec, "quiz", DifficultyEasy, 3)
	assert.Equal(t, "What is 5 + 3?", row.QuestionText)
	assert.Equal(t, "B", row.CorrectAnswer)
	assert.Equal(t, DifficultyEasy, row.Difficulty)
	assert.Equal(t, 3, row.OrderNum)
}
