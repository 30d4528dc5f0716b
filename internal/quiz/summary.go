package quiz

import (
	"fmt"
	"time"
)

// AnswerRecord is one submission. IsCorrect is exact string equality of the
// decoded answers.
type AnswerRecord struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// Summary is the immutable snapshot of a session. ScorePercentage is kept at
// full precision; rounding belongs to whoever displays it.
type Summary struct {
	Date             time.Time      `json:"date"`
	Category         string         `json:"category"`
	Difficulty       string         `json:"difficulty"`
	TotalQuestions   int            `json:"total_questions"`
	CorrectAnswers   int            `json:"correct_answers"`
	IncorrectAnswers int            `json:"incorrect_answers"`
	ScorePercentage  float64        `json:"score_percentage"`
	TimeTakenSeconds int            `json:"time_taken_seconds"`
	Answers          []AnswerRecord `json:"user_answers"`
}

// ScoreLabel renders the percentage with one decimal.
func (s Summary) ScoreLabel() string {
	return fmt.Sprintf("%.1f%%", s.ScorePercentage)
}

func scorePercentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(score) / float64(total)
}
