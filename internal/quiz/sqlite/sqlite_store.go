package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"trivia-tracker/internal/quiz"
)

const DefaultPath = "data/quiz_history.db"

type Store struct {
	db *sqlx.DB
}

// New wraps an existing handle. The schema is created by Init.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the database file and initializes the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, quiz.NewStoreError("open", err)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, quiz.NewStoreError("open", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, quiz.NewStoreError("open", err)
	}

	store := New(db)
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Init(ctx context.Context) error {
	if err := s.initSchema(ctx); err != nil {
		return quiz.NewStoreError("init", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
