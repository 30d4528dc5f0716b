package sqlite

import (
	"context"
)

func (s *Store) initSchema(ctx context.Context) error {
	// date keeps the textual storage layout so rows sort and export the same
	// way as the CSV backend. id preserves arrival order.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quiz_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			incorrect_answers INTEGER NOT NULL,
			score_percentage REAL NOT NULL,
			time_taken_seconds INTEGER NOT NULL,
			user_answers TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_history_date ON quiz_history(date DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
