package redisstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-tracker/internal/quiz"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := Open(context.Background(), Options{Addr: mr.Addr(), Key: "test:history"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func sampleSummary(minute int, score float64) quiz.Summary {
	return quiz.Summary{
		Date:             time.Date(2024, 9, 1, 7, minute, 0, 0, time.UTC),
		Category:         "Entertainment: Video Games",
		Difficulty:       "Easy",
		TotalQuestions:   2,
		CorrectAnswers:   1,
		IncorrectAnswers: 1,
		ScorePercentage:  score,
		TimeTakenSeconds: 12,
		Answers: []quiz.AnswerRecord{
			{Question: "Plumber's name?", UserAnswer: "Mario", CorrectAnswer: "Mario", IsCorrect: true},
			{Question: "Hedgehog's color?", UserAnswer: "Red", CorrectAnswer: "Blue"},
		},
	}
}

func TestRedisStoreAppendAndRead(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for idx, score := range []float64{50, 100, 0} {
		require.NoError(t, store.Append(ctx, sampleSummary(idx, score)))
	}

	items, err := mr.List("test:history")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, sampleSummary(0, 50), all[0])

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, sampleSummary(2, 0), recent[0])
	assert.Equal(t, sampleSummary(1, 100), recent[1])
}

func TestRedisStoreEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	recent, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRedisStoreNilAnswersRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	summary := sampleSummary(0, 0)
	summary.Answers = nil
	require.NoError(t, store.Append(ctx, summary))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].Answers)
	assert.Empty(t, all[0].Answers)
}

func TestRedisStoreKeepsAnswersAsBlob(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	summary := sampleSummary(0, 50)
	require.NoError(t, store.Append(ctx, summary))

	items, err := mr.List("test:history")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(items[0]), &stored))
	want, err := quiz.EncodeAnswers(summary.Answers)
	require.NoError(t, err)
	assert.Equal(t, want, stored["user_answers"])
}

func TestRedisStoreRejectsImpossibleScore(t *testing.T) {
	store, mr := newTestStore(t)

	_, err := mr.Push("test:history", `{"date":"2024-09-01 07:00:00","total_questions":2,"score_percentage":250,"user_answers":"[]"}`)
	require.NoError(t, err)

	_, err = store.All(context.Background())
	assert.ErrorIs(t, err, quiz.ErrStore)
}

func TestRedisStoreInitRejectsWrongKeyType(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set(DefaultKey, "not a list"))

	_, err = Open(context.Background(), Options{Addr: mr.Addr()})
	assert.ErrorIs(t, err, quiz.ErrStore)
}

func TestRedisStoreCorruptElement(t *testing.T) {
	store, mr := newTestStore(t)

	_, err := mr.Push("test:history", "{broken")
	require.NoError(t, err)

	_, err = store.All(context.Background())
	assert.ErrorIs(t, err, quiz.ErrStore)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Open(context.Background(), Options{Addr: addr})
	assert.ErrorIs(t, err, quiz.ErrStore)

	store := New(redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1}), "")
	defer store.Close()
	assert.Equal(t, DefaultKey, store.Key())
	assert.ErrorIs(t, store.Append(context.Background(), sampleSummary(0, 0)), quiz.ErrStore)
}

func TestRedisStoreConcurrentAppends(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			if err := store.Append(ctx, sampleSummary(w, float64(w))); err != nil {
				errs <- err
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers, count)
}
