package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"trivia-tracker/internal/quiz"
)

const DefaultKey = "trivia:history"

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Store appends each summary as a JSON element of one Redis list. RPUSH is
// atomic, so concurrent writers on any host never interleave partial records.
type Store struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Open dials Redis, checks connectivity and validates the history key.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, quiz.NewStoreError("open", fmt.Errorf("ping redis %s: %w", opts.Addr, err))
	}

	store := New(client, opts.Key)
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Key() string { return s.key }

// Init succeeds when the key is absent or already a list. Redis creates the
// list on the first RPUSH, so nothing is written here.
func (s *Store) Init(ctx context.Context) error {
	kind, err := s.client.Type(ctx, s.key).Result()
	if err != nil {
		return quiz.NewStoreError("init", err)
	}
	switch kind {
	case "none", "list":
		return nil
	default:
		return quiz.NewStoreError("init", fmt.Errorf("key %q holds a %s, want list", s.key, kind))
	}
}

func (s *Store) Append(ctx context.Context, summary quiz.Summary) error {
	rec, err := toRecord(summary)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return quiz.NewStoreError("append", err)
	}
	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return quiz.NewStoreError("append", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.key).Result()
	if err != nil {
		return 0, quiz.NewStoreError("count", err)
	}
	return int(n), nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]quiz.Summary, error) {
	if n <= 0 {
		return []quiz.Summary{}, nil
	}
	summaries, err := s.rangeSummaries(ctx, -int64(n), -1)
	if err != nil {
		return nil, err
	}
	return quiz.MostRecent(summaries, n), nil
}

func (s *Store) All(ctx context.Context) ([]quiz.Summary, error) {
	return s.rangeSummaries(ctx, 0, -1)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) rangeSummaries(ctx context.Context, start, stop int64) ([]quiz.Summary, error) {
	items, err := s.client.LRange(ctx, s.key, start, stop).Result()
	if err != nil {
		return nil, quiz.NewStoreError("read", err)
	}

	summaries := make([]quiz.Summary, 0, len(items))
	for idx, item := range items {
		var rec record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, quiz.NewStoreError("read", fmt.Errorf("element %d: %w", idx, err))
		}
		summary, err := rec.toSummary()
		if err != nil {
			return nil, quiz.NewStoreError("read", fmt.Errorf("element %d: %w", idx, err))
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// record mirrors the tabular layout so every backend stores dates and the
// answer blob the same way.
type record struct {
	Date             string  `json:"date"`
	Category         string  `json:"category"`
	Difficulty       string  `json:"difficulty"`
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	ScorePercentage  float64 `json:"score_percentage"`
	TimeTakenSeconds int     `json:"time_taken_seconds"`
	UserAnswers      string  `json:"user_answers"`
}

func toRecord(summary quiz.Summary) (record, error) {
	if err := quiz.CheckScore(summary.ScorePercentage); err != nil {
		return record{}, err
	}
	answers, err := quiz.EncodeAnswers(summary.Answers)
	if err != nil {
		return record{}, err
	}
	return record{
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

func (r record) toSummary() (quiz.Summary, error) {
	date, err := quiz.ParseDate(r.Date)
	if err != nil {
		return quiz.Summary{}, err
	}
	if err := quiz.CheckScore(r.ScorePercentage); err != nil {
		return quiz.Summary{}, err
	}
	answers, err := quiz.DecodeAnswers(r.UserAnswers)
	if err != nil {
		return quiz.Summary{}, err
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
