package httpapi

import (
	"context"

	"go.uber.org/zap"

	"trivia-tracker/internal/quiz"
	"trivia-tracker/internal/stats"
)

// Reporter is the read side served over HTTP. *stats.Engine satisfies it.
type Reporter interface {
	Summary(ctx context.Context) (stats.Report, error)
	Recent(ctx context.Context, n int) ([]quiz.Summary, error)
}

type API struct {
	reporter    Reporter
	log         *zap.Logger
	recentLimit int
}

func NewAPI(reporter Reporter, log *zap.Logger, recentLimit int) *API {
	if log == nil {
		log = zap.NewNop()
	}
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &API{
		reporter:    reporter,
		log:         log,
		recentLimit: recentLimit,
	}
}
