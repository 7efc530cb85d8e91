package quizgen

import (
	"fmt"

	"quiz-seeder/internal/domain"
)

// SystemInstruction fixes the reply format to a bare JSON array.
const SystemInstruction = "You are a helpful assistant that generates educational math questions in JSON format. " +
	"Always return valid JSON arrays with no additional text or markdown."

const questionPromptTemplate = `Generate exactly %[1]d multiple-choice math questions for grade %[2]d students.
The questions should be a mix of arithmetic and algebra topics appropriate for grade %[2]d.
The difficulty level is %[3]s.
Each question must have:
- A clear question text
- Four options (A, B, C, D)
- The correct answer (A, B, C, or D)
- A detailed explanation of the solution

Return the response as a valid JSON array with this exact structure:
[
  {
    "question": "What is 5 + 3?",
    "optionA": "6",
    "optionB": "7",
    "optionC": "8",
    "optionD": "9",
    "correctAnswer": "C",
    "explanation": "5 plus 3 equals 8 because when you add 3 more to 5, the total becomes 8."
  }
]

Important:
- Return ONLY the JSON array, no additional text or markdown formatting
- Ensure all %[1]d questions are unique and varied
- Make sure the correct answer matches one of the four options
- Keep explanations clear and educational for grade %[2]d students`

// BuildQuestionPrompt asks for exactly count records for the tier.
func BuildQuestionPrompt(tier domain.TierConfig, count int) string {
	return fmt.Sprintf(questionPromptTemplate, count, tier.GradeLevel, tier.Difficulty)
}
