package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trivia-tracker/internal/config"
	"trivia-tracker/internal/quiz"
	"trivia-tracker/internal/quiz/csvstore"
	"trivia-tracker/internal/quiz/redisstore"
	"trivia-tracker/internal/quiz/sqlite"
)

// openHistory opens and initializes the configured backend.
func openHistory(ctx context.Context, cfg config.HistoryConfig, log *zap.Logger) (quiz.HistoryRepository, error) {
	var (
		repo quiz.HistoryRepository
		err  error
	)

	switch cfg.Backend {
	case config.BackendCSV:
		repo, err = csvstore.Open(ctx, cfg.CSVPath)
	case config.BackendSQLite:
		repo, err = sqlite.Open(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		repo, err = redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("history opened", zap.String("backend", cfg.Backend))
	return repo, nil
}
