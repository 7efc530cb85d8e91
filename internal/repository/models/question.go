package models

import "time"

// Question is a row of the questions table. ID and CreatedAt are filled by the database.
type Question struct {
	ID            string    `db:"id"`
	QuizID        string    `db:"quiz_id"`
	QuestionText  string    `db:"question_text"`
	OptionA       string    `db:"option_a"`
	OptionB       string    `db:"option_b"`
	OptionC       string    `db:"option_c"`
	OptionD       string    `db:"option_d"`
	CorrectAnswer string    `db:"correct_answer"`
	Explanation   string    `db:"explanation"`
	Difficulty    string    `db:"difficulty"`
	OrderNum      int       `db:"order_num"`
	CreatedAt     time.Time `db:"created_at"`
}
