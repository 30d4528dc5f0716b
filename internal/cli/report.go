package cli

import (
	"fmt"
	"io"

	"trivia-tracker/internal/quiz"
	"trivia-tracker/internal/stats"
)

const passScore = 70.0

func performanceMessage(score float64) string {
	switch {
	case score >= 90:
		return "Outstanding! You're a genius!"
	case score >= 70:
		return "Great job! Well done!"
	case score >= 50:
		return "Good effort! Keep practicing!"
	default:
		return "Don't give up! Try again!"
	}
}

func printSummary(out io.Writer, summary quiz.Summary) {
	verdict := "below pass mark"
	if summary.ScorePercentage >= passScore {
		verdict = "pass"
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Quiz complete!")
	fmt.Fprintf(out, "Score: %s (%s)\n", summary.ScoreLabel(), verdict)
	fmt.Fprintf(out, "Correct Answers: %d\n", summary.CorrectAnswers)
	fmt.Fprintf(out, "Incorrect Answers: %d\n", summary.IncorrectAnswers)
	fmt.Fprintf(out, "Total Questions: %d\n", summary.TotalQuestions)
	fmt.Fprintf(out, "Time Taken: %d seconds\n", summary.TimeTakenSeconds)
	fmt.Fprintln(out)
	fmt.Fprintln(out, performanceMessage(summary.ScorePercentage))
}

func printReport(out io.Writer, report stats.Report, recent []quiz.Summary) {
	if report.Empty() {
		fmt.Fprintln(out, "No quiz data available yet.")
		fmt.Fprintln(out, "Take a quiz to see your statistics!")
		return
	}

	fmt.Fprintln(out, "Overall Performance")
	fmt.Fprintf(out, "  Total Quizzes:      %d\n", report.TotalQuizzes)
	fmt.Fprintf(out, "  Questions Answered: %d\n", report.TotalQuestionsAnswered)
	fmt.Fprintf(out, "  Overall Accuracy:   %.1f%%\n", report.OverallAccuracy)
	fmt.Fprintf(out, "  Mean Score:         %.1f%%\n", report.MeanScore)
	fmt.Fprintf(out, "  Median Score:       %.1f%%\n", report.MedianScore)
	fmt.Fprintf(out, "  Mode Score:         %.1f%%\n", report.ModeScore)
	fmt.Fprintf(out, "  Std Deviation:      %.2f\n", report.StdDeviation)
	fmt.Fprintf(out, "  Best Score:         %.1f%%\n", report.BestScore)
	fmt.Fprintf(out, "  Worst Score:        %.1f%%\n", report.WorstScore)

	printGroups(out, "By Category", report.ByCategory)
	printGroups(out, "By Difficulty", report.ByDifficulty)

	if len(recent) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent Quizzes")
		for _, summary := range recent {
			fmt.Fprintf(out, "  %s | %s | %s | Score: %s\n",
				quiz.FormatDate(summary.Date), summary.Category, summary.Difficulty, summary.ScoreLabel())
		}
	}
}

func printGroups(out io.Writer, title string, groups []stats.GroupStat) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, group := range groups {
		fmt.Fprintf(out, "  %-28s %3d quizzes  avg %.1f%%\n", group.Name, group.Quizzes, group.MeanScore)
	}
}
