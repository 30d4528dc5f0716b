package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"trivia-tracker/internal/opentdb"
)

const (
	MinAmount           = 1
	MaxAmount           = 50
	DefaultFetchTimeout = 10 * time.Second

	rateLimitCode = opentdb.CodeRateLimit
)

type QuestionsFetcher func(ctx context.Context, query opentdb.Query) ([]opentdb.RawQuestion, error)

// FetchRequest describes the question set to fetch. CategoryID 0 and
// DifficultyAny mean "any".
type FetchRequest struct {
	Amount     int
	CategoryID int
	Difficulty Difficulty
}

type QuestionSource interface {
	Fetch(ctx context.Context, req FetchRequest) ([]Question, error)
}

// Source turns raw API questions into normalized Questions. It never caches
// and never retries; every failure is reported as a *FetchError.
type Source struct {
	fetcher QuestionsFetcher
	timeout time.Duration
	shuffle shuffleFunc
}

func NewSource(fetcher QuestionsFetcher, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Source{
		fetcher: fetcher,
		timeout: timeout,
		shuffle: rand.Shuffle,
	}
}

func (s *Source) Fetch(ctx context.Context, req FetchRequest) ([]Question, error) {
	if req.Amount < MinAmount || req.Amount > MaxAmount {
		return nil, &FetchError{Reason: FetchReasonInvalidAmount, Err: ErrInvalidAmount}
	}
	if req.CategoryID < 0 || !req.Difficulty.Valid() {
		return nil, &FetchError{
			Reason: FetchReasonInvalidRequest,
			Err:    fmt.Errorf("%w: category=%d difficulty=%q", ErrInvalidRequest, req.CategoryID, req.Difficulty),
		}
	}
	if s.fetcher == nil {
		return nil, &FetchError{Reason: FetchReasonTransport, Err: errors.New("question fetcher is not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.fetcher(ctx, opentdb.Query{
		Amount:     req.Amount,
		Category:   req.CategoryID,
		Difficulty: string(req.Difficulty),
	})
	if err != nil {
		return nil, classifyFetchError(err)
	}

	if len(raw) != req.Amount {
		return nil, &FetchError{
			Reason: FetchReasonShortResult,
			Err:    fmt.Errorf("requested %d questions, received %d", req.Amount, len(raw)),
		}
	}

	questions, err := buildQuestions(raw, s.shuffle)
	if err != nil {
		return nil, &FetchError{Reason: FetchReasonInvalidQuestion, Err: err}
	}
	return questions, nil
}

func classifyFetchError(err error) *FetchError {
	var (
		respErr   *opentdb.ResponseError
		statusErr *opentdb.StatusError
	)
	switch {
	case errors.As(err, &respErr):
		return &FetchError{Reason: FetchReasonResponseCode, ResponseCode: respErr.Code, Err: err}
	case errors.As(err, &statusErr):
		return &FetchError{Reason: FetchReasonStatus, Err: err}
	case errors.Is(err, opentdb.ErrDecode):
		return &FetchError{Reason: FetchReasonDecode, Err: err}
	default:
		return &FetchError{Reason: FetchReasonTransport, Err: err}
	}
}
