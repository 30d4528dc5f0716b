package httpapi

import (
	"trivia-tracker/internal/opentdb"
	"trivia-tracker/internal/quiz"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type historyResponse struct {
	Count    int            `json:"count"`
	Sessions []quiz.Summary `json:"sessions"`
}

type categoriesResponse struct {
	Categories   []opentdb.Category `json:"categories"`
	Difficulties []string           `json:"difficulties"`
}
