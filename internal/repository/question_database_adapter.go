package repository

import (
	"context"
	"fmt"

	"quiz-seeder/internal/domain"
	"quiz-seeder/internal/repository/models"
)

var _ domain.QuestionRepository = (*QuestionDatabaseAdapter)(nil)

const insertQuestionsQuery = `INSERT INTO questions (quiz_id, question_text, option_a, option_b, option_c, option_d, correct_answer, explanation, difficulty, order_num) VALUES (:quiz_id, :question_text, :option_a, :option_b, :option_c, :option_d, :correct_answer, :explanation, :difficulty, :order_num)`

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.
type QuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db DBTX) *QuestionDatabaseAdapter {
	return &QuestionDatabaseAdapter{db: db}
}

// InsertBatch implements domain.QuestionRepository. sqlx expands the named
// query into one multi-row INSERT, so a batch is written or rejected as a whole.
func (a *QuestionDatabaseAdapter) InsertBatch(ctx context.Context, rows []domain.InsertRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := make([]models.Question, len(rows))
	for i, r := range rows {
		batch[i] = toModelQuestion(r)
	}

	if _, err := a.db.NamedExecContext(ctx, insertQuestionsQuery, batch); err != nil {
		return persistenceError(fmt.Sprintf("failed to insert %d questions", len(rows)), err)
	}
	return nil
}

// CountByQuiz returns how many questions of the given difficulty the quiz already has.
func (a *QuestionDatabaseAdapter) CountByQuiz(ctx context.Context, quizID string, difficulty domain.Difficulty) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM questions WHERE quiz_id = $1 AND difficulty = $2`
	if err := a.db.GetContext(ctx, &n, query, quizID, difficulty.String()); err != nil {
		return 0, persistenceError("failed to count questions", err)
	}
	return n, nil
}

// RefreshQuizTotal sets quizzes.total_questions to the quiz's current question count.
func (a *QuestionDatabaseAdapter) RefreshQuizTotal(ctx context.Context, quizID string) error {
	query := `UPDATE quizzes SET total_questions = (SELECT COUNT(*) FROM questions WHERE quiz_id = $1) WHERE id = $1`
	if _, err := a.db.ExecContext(ctx, query, quizID); err != nil {
		return persistenceError("failed to refresh quiz total", err)
	}
	return nil
}

func toModelQuestion(r domain.InsertRow) models.Question {
	return models.Question{
		QuizID:        r.QuizID,
		QuestionText:  r.QuestionText,
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
		Difficulty:    r.Difficulty.String(),
		OrderNum:      r.OrderNum,
	}
}
