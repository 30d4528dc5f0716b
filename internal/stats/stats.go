package stats

import (
	"context"
	"fmt"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"trivia-tracker/internal/quiz"
)

// Report aggregates every stored summary. Score fields are percentages.
// Values are rounded here and only here.
type Report struct {
	TotalQuizzes           int         `json:"total_quizzes"`
	TotalQuestionsAnswered int         `json:"total_questions_answered"`
	MeanScore              float64     `json:"mean_score"`
	MedianScore            float64     `json:"median_score"`
	ModeScore              float64     `json:"mode_score"`
	StdDeviation           float64     `json:"std_deviation"`
	OverallAccuracy        float64     `json:"overall_accuracy"`
	BestScore              float64     `json:"best_score"`
	WorstScore             float64     `json:"worst_score"`
	ByCategory             []GroupStat `json:"by_category"`
	ByDifficulty           []GroupStat `json:"by_difficulty"`
}

type GroupStat struct {
	Name      string  `json:"name"`
	Quizzes   int     `json:"quizzes"`
	MeanScore float64 `json:"mean_score"`
}

func (r Report) Empty() bool { return r.TotalQuizzes == 0 }

type Engine struct {
	history quiz.HistoryReader
}

func NewEngine(history quiz.HistoryReader) *Engine {
	return &Engine{history: history}
}

// Summary scans the whole history on every call.
func (e *Engine) Summary(ctx context.Context) (Report, error) {
	all, err := e.history.All(ctx)
	if err != nil {
		return Report{}, err
	}
	return Compute(all)
}

func (e *Engine) Recent(ctx context.Context, n int) ([]quiz.Summary, error) {
	return e.history.Recent(ctx, n)
}

// Compute builds the report for an arrival-ordered slice of summaries.
func Compute(summaries []quiz.Summary) (Report, error) {
	report := Report{
		ByCategory:   []GroupStat{},
		ByDifficulty: []GroupStat{},
	}
	if len(summaries) == 0 {
		return report, nil
	}

	scores := make(mstats.Float64Data, 0, len(summaries))
	correct := 0
	for _, summary := range summaries {
		scores = append(scores, summary.ScorePercentage)
		correct += summary.CorrectAnswers
		report.TotalQuestionsAnswered += summary.TotalQuestions
	}
	report.TotalQuizzes = len(summaries)

	mean, err := scores.Mean()
	if err != nil {
		return Report{}, fmt.Errorf("mean: %w", err)
	}
	median, err := scores.Median()
	if err != nil {
		return Report{}, fmt.Errorf("median: %w", err)
	}
	best, err := scores.Max()
	if err != nil {
		return Report{}, fmt.Errorf("max: %w", err)
	}
	worst, err := scores.Min()
	if err != nil {
		return Report{}, fmt.Errorf("min: %w", err)
	}

	stdDev := 0.0
	if len(scores) > 1 {
		stdDev, err = scores.StandardDeviationSample()
		if err != nil {
			return Report{}, fmt.Errorf("standard deviation: %w", err)
		}
	}

	accuracy := 0.0
	if report.TotalQuestionsAnswered > 0 {
		accuracy = 100 * float64(correct) / float64(report.TotalQuestionsAnswered)
	}

	report.MeanScore = round(mean, 1)
	report.MedianScore = round(median, 1)
	report.ModeScore = round(mode(scores, mean), 1)
	report.StdDeviation = round(stdDev, 2)
	report.OverallAccuracy = round(accuracy, 1)
	report.BestScore = round(best, 1)
	report.WorstScore = round(worst, 1)
	report.ByCategory = groupBy(summaries, func(s quiz.Summary) string { return s.Category })
	report.ByDifficulty = groupBy(summaries, func(s quiz.Summary) string { return s.Difficulty })

	return report, nil
}

// mode returns the most frequent score, the smallest one on ties, or
// fallback when no score repeats. mstats.Mode reports nothing in that last
// case, so counting is done here.
func mode(scores []float64, fallback float64) float64 {
	counts := make(map[float64]int, len(scores))
	for _, score := range scores {
		counts[score]++
	}

	best, bestCount := 0.0, 1
	for score, count := range counts {
		if count > bestCount || (count == bestCount && count > 1 && score < best) {
			best, bestCount = score, count
		}
	}
	if bestCount == 1 {
		return fallback
	}
	return best
}

func groupBy(summaries []quiz.Summary, key func(quiz.Summary) string) []GroupStat {
	grouped := make(map[string]mstats.Float64Data)
	for _, summary := range summaries {
		name := key(summary)
		grouped[name] = append(grouped[name], summary.ScorePercentage)
	}

	out := make([]GroupStat, 0, len(grouped))
	for name, scores := range grouped {
		mean, _ := scores.Mean()
		out = append(out, GroupStat{
			Name:      name,
			Quizzes:   len(scores),
			MeanScore: round(mean, 1),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func round(value float64, places int) float64 {
	rounded, err := mstats.Round(value, places)
	if err != nil {
		return 0
	}
	return rounded
}
