package quiz

import (
	"errors"
	"fmt"
	"html"
	"math/rand"
	"strings"

	"trivia-tracker/internal/opentdb"
)

type Question struct {
	Text          string     `json:"question"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	CorrectAnswer string     `json:"correct_answer"`
	// Answers holds the correct answer and the distractors in the order fixed
	// at fetch time.
	Answers []string `json:"answers"`
}

// CorrectIndex is the position of CorrectAnswer in Answers, or -1.
func (q Question) CorrectIndex() int {
	for idx, answer := range q.Answers {
		if answer == q.CorrectAnswer {
			return idx
		}
	}
	return -1
}

type shuffleFunc func(n int, swap func(i, j int))

// BuildQuestions decodes and shuffles raw API questions.
func BuildQuestions(raw []opentdb.RawQuestion) ([]Question, error) {
	return buildQuestions(raw, rand.Shuffle)
}

func buildQuestions(raw []opentdb.RawQuestion, shuffle shuffleFunc) ([]Question, error) {
	questions := make([]Question, 0, len(raw))
	for idx, item := range raw {
		question, err := buildQuestion(item, shuffle)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", idx+1, err)
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func buildQuestion(raw opentdb.RawQuestion, shuffle shuffleFunc) (Question, error) {
	correct := html.UnescapeString(raw.CorrectAnswer)
	if strings.TrimSpace(correct) == "" {
		return Question{}, errors.New("missing correct answer")
	}

	answers := make([]string, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		answers = append(answers, html.UnescapeString(incorrect))
	}
	answers = append(answers, correct)

	shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	difficulty, err := ParseDifficulty(raw.Difficulty)
	if err != nil {
		difficulty = DifficultyAny
	}

	question := Question{
		Text:          html.UnescapeString(raw.Question),
		Category:      html.UnescapeString(raw.Category),
		Difficulty:    difficulty,
		CorrectAnswer: correct,
		Answers:       answers,
	}
	if question.CorrectIndex() < 0 {
		return Question{}, errors.New("correct answer missing from shuffled answers")
	}
	return question, nil
}
