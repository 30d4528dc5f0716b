package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the sortable textual form of Summary.Date in storage (UTC).
const DateLayout = "2006-01-02 15:04:05"

// HistoryColumns is the persisted tabular layout of a summary, in order.
var HistoryColumns = []string{
	"date",
	"category",
	"difficulty",
	"total_questions",
	"correct_answers",
	"incorrect_answers",
	"score_percentage",
	"time_taken_seconds",
	"user_answers",
}

type HistoryReader interface {
	Count(ctx context.Context) (int, error)
	// Recent returns at most n summaries, most recent first.
	Recent(ctx context.Context, n int) ([]Summary, error)
	// All returns every summary in arrival order.
	All(ctx context.Context) ([]Summary, error)
}

// HistoryRepository is an append-only log of summaries. Implementations read
// durable state on every query and report failures as *StoreError.
type HistoryRepository interface {
	HistoryReader
	// Init creates an empty store if none exists. It never truncates.
	Init(ctx context.Context) error
	Append(ctx context.Context, summary Summary) error
	Close() error
}

// MostRecent picks the last n summaries of an arrival-ordered slice and
// orders them by date, newest first. Equal dates keep the later arrival first.
func MostRecent(all []Summary, n int) []Summary {
	if n <= 0 || len(all) == 0 {
		return []Summary{}
	}
	if n > len(all) {
		n = len(all)
	}

	tail := all[len(all)-n:]
	out := make([]Summary, 0, n)
	for idx := len(tail) - 1; idx >= 0; idx-- {
		out = append(out, tail[idx])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// FormatScore writes the shortest representation that parses back to the
// same float64.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// EncodeAnswers serializes the answer log as an opaque JSON blob.
func EncodeAnswers(answers []AnswerRecord) (string, error) {
	if answers == nil {
		answers = []AnswerRecord{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(encoded), nil
}

func DecodeAnswers(blob string) ([]AnswerRecord, error) {
	answers := []AnswerRecord{}
	if strings.TrimSpace(blob) == "" {
		return answers, nil
	}
	if err := json.Unmarshal([]byte(blob), &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if answers == nil {
		answers = []AnswerRecord{}
	}
	return answers, nil
}

// SummaryToRow renders a summary in HistoryColumns order.
func SummaryToRow(summary Summary) ([]string, error) {
	if err := CheckScore(summary.ScorePercentage); err != nil {
		return nil, err
	}
	answers, err := EncodeAnswers(summary.Answers)
	if err != nil {
		return nil, err
	}
	return []string{
		FormatDate(summary.Date),
		summary.Category,
		summary.Difficulty,
		strconv.Itoa(summary.TotalQuestions),
		strconv.Itoa(summary.CorrectAnswers),
		strconv.Itoa(summary.IncorrectAnswers),
		FormatScore(summary.ScorePercentage),
		strconv.Itoa(summary.TimeTakenSeconds),
		answers,
	}, nil
}

// RowToSummary parses a row in HistoryColumns order.
func RowToSummary(row []string) (Summary, error) {
	if len(row) != len(HistoryColumns) {
		return Summary{}, fmt.Errorf("expected %d columns, got %d", len(HistoryColumns), len(row))
	}

	date, err := ParseDate(row[0])
	if err != nil {
		return Summary{}, err
	}

	ints := make([]int, 0, 4)
	for _, idx := range []int{3, 4, 5, 7} {
		value, err := parseIntColumn(row[idx])
		if err != nil {
			return Summary{}, fmt.Errorf("column %s: %w", HistoryColumns[idx], err)
		}
		ints = append(ints, value)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil {
		return Summary{}, fmt.Errorf("column score_percentage: %w", err)
	}
	if err := CheckScore(score); err != nil {
		return Summary{}, fmt.Errorf("column score_percentage: %w", err)
	}

	answers, err := DecodeAnswers(row[8])
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Date:             date,
		Category:         row[1],
		Difficulty:       row[2],
		TotalQuestions:   ints[0],
		CorrectAnswers:   ints[1],
		IncorrectAnswers: ints[2],
		ScorePercentage:  score,
		TimeTakenSeconds: ints[3],
		Answers:          answers,
	}, nil
}

// CheckScore rejects stored percentages that no session can produce.
func CheckScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return fmt.Errorf("score %v outside [0,100]", score)
	}
	return nil
}

// parseIntColumn also accepts integral floats ("10.0"), which spreadsheet
// tools tend to write back.
func parseIntColumn(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if value, err := strconv.Atoi(raw); err == nil {
		return value, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}
