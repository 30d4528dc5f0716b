package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"trivia-tracker/internal/opentdb"
	"trivia-tracker/internal/quiz"
)

const (
	defaultRecentLimit = 5
	maxHistoryLimit    = 500
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (a *API) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	report, err := a.reporter.Summary(r.Context())
	if err != nil {
		a.log.Error("compute statistics", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	limit, err := parseIntParam(r, "limit", a.recentLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := a.reporter.Recent(r.Context(), limit)
	if err != nil {
		a.log.Error("read history", zap.Int("limit", limit), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Count:    len(sessions),
		Sessions: sessions,
	})
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{
		Categories:   opentdb.Categories(),
		Difficulties: quiz.Difficulties(),
	})
}
