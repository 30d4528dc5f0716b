package quiz

import (
	"sort"
	"testing"

	"trivia-tracker/internal/opentdb"
)

func reverseShuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func TestBuildQuestionsUnescapesAnswers(t *testing.T) {
	raw := []opentdb.RawQuestion{
		{
			Category:         "Science &amp; Nature",
			Difficulty:       "easy",
			Question:         "2 &amp; 2 = ?",
			CorrectAnswer:    "4 &lt; 5",
			IncorrectAnswers: []string{"1", "&quot;2&quot;", "3"},
		},
	}

	questions, err := BuildQuestions(raw)
	if err != nil {
		t.Fatalf("BuildQuestions returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	item := questions[0]
	if item.Text != "2 & 2 = ?" {
		t.Fatalf("question not unescaped, got %q", item.Text)
	}
	if item.Category != "Science & Nature" {
		t.Fatalf("category not unescaped, got %q", item.Category)
	}
	if item.Difficulty != DifficultyEasy {
		t.Fatalf("difficulty = %q, want easy", item.Difficulty)
	}
	if item.CorrectAnswer != "4 < 5" {
		t.Fatalf("correct answer not unescaped, got %q", item.CorrectAnswer)
	}
	if len(item.Answers) != 4 {
		t.Fatalf("expected 4 answers, got %d", len(item.Answers))
	}

	idx := item.CorrectIndex()
	if idx < 0 || item.Answers[idx] != "4 < 5" {
		t.Fatalf("correct answer not found in answers: %+v", item.Answers)
	}

	foundQuoted := false
	for _, answer := range item.Answers {
		if answer == `"2"` {
			foundQuoted = true
		}
	}
	if !foundQuoted {
		t.Fatalf("distractor not unescaped: %+v", item.Answers)
	}
}

func TestBuildQuestionsShuffleIsPermutation(t *testing.T) {
	raw := opentdb.RawQuestion{
		Question:         "Pick one",
		CorrectAnswer:    "Paris",
		IncorrectAnswers: []string{"Berlin", "Madrid", "Rome"},
	}

	for round := 0; round < 50; round++ {
		questions, err := BuildQuestions([]opentdb.RawQuestion{raw})
		if err != nil {
			t.Fatalf("BuildQuestions returned error: %v", err)
		}

		got := append([]string(nil), questions[0].Answers...)
		want := []string{"Paris", "Berlin", "Madrid", "Rome"}
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("round %d: got %d answers, want %d", round, len(got), len(want))
		}
		for idx := range want {
			if got[idx] != want[idx] {
				t.Fatalf("round %d: answers %v are not a permutation of %v", round, got, want)
			}
		}
	}
}

func TestBuildQuestionsUsesInjectedShuffle(t *testing.T) {
	raw := []opentdb.RawQuestion{
		{Question: "Q", CorrectAnswer: "right", IncorrectAnswers: []string{"a", "b"}},
	}

	questions, err := buildQuestions(raw, reverseShuffle)
	if err != nil {
		t.Fatalf("buildQuestions returned error: %v", err)
	}

	want := []string{"right", "b", "a"}
	for idx, answer := range questions[0].Answers {
		if answer != want[idx] {
			t.Fatalf("answers = %v, want %v", questions[0].Answers, want)
		}
	}
	if questions[0].CorrectIndex() != 0 {
		t.Fatalf("correct index = %d, want 0", questions[0].CorrectIndex())
	}
}

func TestBuildQuestionsRejectsMissingCorrectAnswer(t *testing.T) {
	raw := []opentdb.RawQuestion{
		{Question: "ok", CorrectAnswer: "yes", IncorrectAnswers: []string{"no"}},
		{Question: "broken", CorrectAnswer: "  ", IncorrectAnswers: []string{"no"}},
	}

	if _, err := BuildQuestions(raw); err == nil {
		t.Fatalf("expected error for question without correct answer")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Difficulty
		wantErr bool
	}{
		{name: "empty", input: "", want: DifficultyAny},
		{name: "any label", input: "Any Difficulty", want: DifficultyAny},
		{name: "mixed label", input: "Mixed", want: DifficultyAny},
		{name: "title case", input: "Easy", want: DifficultyEasy},
		{name: "api value", input: "medium", want: DifficultyMedium},
		{name: "padded upper", input: " HARD ", want: DifficultyHard},
		{name: "unknown", input: "insane", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDifficulty(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseDifficulty(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("ParseDifficulty(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDifficultyLabel(t *testing.T) {
	if got := DifficultyAny.Label(); got != MixedLabel {
		t.Fatalf("any label = %q, want %q", got, MixedLabel)
	}
	if got := DifficultyMedium.Label(); got != "Medium" {
		t.Fatalf("medium label = %q, want Medium", got)
	}
}
