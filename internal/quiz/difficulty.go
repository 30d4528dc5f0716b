package quiz

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	AnyDifficultyLabel = "Any Difficulty"
	// MixedLabel is recorded in history when no difficulty filter was used.
	MixedLabel = "Mixed"
)

// Difficulties returns the difficulty vocabulary in display order.
func Difficulties() []string {
	return []string{AnyDifficultyLabel, "Easy", "Medium", "Hard"}
}

// ParseDifficulty accepts API values and display labels in any case.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "any", strings.ToLower(AnyDifficultyLabel), strings.ToLower(MixedLabel):
		return DifficultyAny, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyAny, fmt.Errorf("unknown difficulty %q", raw)
	}
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyAny, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Label is the human-readable name stored with a session summary.
func (d Difficulty) Label() string {
	if d == DifficultyAny {
		return MixedLabel
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}
