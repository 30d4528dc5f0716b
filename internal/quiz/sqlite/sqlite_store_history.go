package sqlite

import (
	"context"
	"fmt"
	"slices"

	"trivia-tracker/internal/quiz"
)

const historySelect = `SELECT id, date, category, difficulty, total_questions, correct_answers,
	incorrect_answers, score_percentage, time_taken_seconds, user_answers
	FROM quiz_history`

type historyRow struct {
	ID               int64   `db:"id"`
	Date             string  `db:"date"`
	Category         string  `db:"category"`
	Difficulty       string  `db:"difficulty"`
	TotalQuestions   int     `db:"total_questions"`
	CorrectAnswers   int     `db:"correct_answers"`
	IncorrectAnswers int     `db:"incorrect_answers"`
	ScorePercentage  float64 `db:"score_percentage"`
	TimeTakenSeconds int     `db:"time_taken_seconds"`
	UserAnswers      string  `db:"user_answers"`
}

func toRow(summary quiz.Summary) (historyRow, error) {
	if err := quiz.CheckScore(summary.ScorePercentage); err != nil {
		return historyRow{}, err
	}
	answers, err := quiz.EncodeAnswers(summary.Answers)
	if err != nil {
		return historyRow{}, err
	}
	return historyRow{
		Date:             quiz.FormatDate(summary.Date),
		Category:         summary.Category,
		Difficulty:       summary.Difficulty,
		TotalQuestions:   summary.TotalQuestions,
		CorrectAnswers:   summary.CorrectAnswers,
		IncorrectAnswers: summary.IncorrectAnswers,
		ScorePercentage:  summary.ScorePercentage,
		TimeTakenSeconds: summary.TimeTakenSeconds,
		UserAnswers:      answers,
	}, nil
}

func (r historyRow) toSummary() (quiz.Summary, error) {
	date, err := quiz.ParseDate(r.Date)
	if err != nil {
		return quiz.Summary{}, fmt.Errorf("row %d: %w", r.ID, err)
	}
	if err := quiz.CheckScore(r.ScorePercentage); err != nil {
		return quiz.Summary{}, fmt.Errorf("row %d: %w", r.ID, err)
	}
	answers, err := quiz.DecodeAnswers(r.UserAnswers)
	if err != nil {
		return quiz.Summary{}, fmt.Errorf("row %d: %w", r.ID, err)
	}
	return quiz.Summary{
		Date:             date,
		Category:         r.Category,
		Difficulty:       r.Difficulty,
		TotalQuestions:   r.TotalQuestions,
		CorrectAnswers:   r.CorrectAnswers,
		IncorrectAnswers: r.IncorrectAnswers,
		ScorePercentage:  r.ScorePercentage,
		TimeTakenSeconds: r.TimeTakenSeconds,
		Answers:          answers,
	}, nil
}

// Append inserts one row in its own transaction so a failed write leaves no
// partial record behind.
func (s *Store) Append(ctx context.Context, summary quiz.Summary) error {
	row, err := toRow(summary)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(
		ctx,
		`INSERT INTO quiz_history (
			date, category, difficulty, total_questions, correct_answers,
			incorrect_answers, score_percentage, time_taken_seconds, user_answers
		) VALUES (
			:date, :category, :difficulty, :total_questions, :correct_answers,
			:incorrect_answers, :score_percentage, :time_taken_seconds, :user_answers
		)`,
		row,
	); err != nil {
		return quiz.NewStoreError("append", err)
	}

	if err := tx.Commit(); err != nil {
		return quiz.NewStoreError("append", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM quiz_history`); err != nil {
		return 0, quiz.NewStoreError("count", err)
	}
	return count, nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]quiz.Summary, error) {
	if n <= 0 {
		return []quiz.Summary{}, nil
	}

	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, historySelect+` ORDER BY id DESC LIMIT ?`, n); err != nil {
		return nil, quiz.NewStoreError("read", err)
	}
	slices.Reverse(rows)

	summaries, err := toSummaries(rows)
	if err != nil {
		return nil, quiz.NewStoreError("read", err)
	}
	return quiz.MostRecent(summaries, n), nil
}

func (s *Store) All(ctx context.Context) ([]quiz.Summary, error) {
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, historySelect+` ORDER BY id ASC`); err != nil {
		return nil, quiz.NewStoreError("read", err)
	}

	summaries, err := toSummaries(rows)
	if err != nil {
		return nil, quiz.NewStoreError("read", err)
	}
	return summaries, nil
}

func toSummaries(rows []historyRow) ([]quiz.Summary, error) {
	summaries := make([]quiz.Summary, 0, len(rows))
	for _, row := range rows {
		summary, err := row.toSummary()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
