package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/suggest"
	"github.com/werkgeheugen/backend/internal/validation"
)

// SuggestionHandler handles suggestion requests
type SuggestionHandler struct {
	taskRepo database.TaskRepositoryInterface
	ranker   *suggest.Ranker
	logger   *zap.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(taskRepo database.TaskRepositoryInterface, ranker *suggest.Ranker, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{taskRepo: taskRepo, ranker: ranker, logger: logger}
}

// RegisterRoutes registers suggestion routes on the given router
// The router should already have the /suggestions prefix
func (h *SuggestionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.DailySuggestions).Methods("GET")
	r.HandleFunc("/best", h.BestSuggestion).Methods("GET")
	r.HandleFunc("/focus", h.TodaysFocus).Methods("GET")
	r.HandleFunc("/tomorrow", h.TomorrowTopPick).Methods("GET")
}

// DailySuggestions returns the daily set of three suggestions plus a quick win
func (h *SuggestionHandler) DailySuggestions(w http.ResponseWriter, r *http.Request) {
	tasks, ok := h.activeTasks(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.ranker.GenerateSuggestions(tasks))
}

// BestSuggestion returns the best next step for one category
func (h *SuggestionHandler) BestSuggestion(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "category query parameter is required")
		return
	}
	if err := validation.ValidateTaskCategory(raw); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	tasks, ok := h.activeTasks(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.ranker.BestSuggestion(models.TaskCategory(raw), tasks))
}

// TodaysFocus returns the short list to work on today
func (h *SuggestionHandler) TodaysFocus(w http.ResponseWriter, r *http.Request) {
	tasks, ok := h.activeTasks(w, r)
	if !ok {
		return
	}

	focus := h.ranker.TodaysFocus(tasks)
	if focus == nil {
		focus = []*models.Task{}
	}
	respondJSON(w, http.StatusOK, focus)
}

// TomorrowTopPick returns the single task to start tomorrow with
func (h *SuggestionHandler) TomorrowTopPick(w http.ResponseWriter, r *http.Request) {
	tasks, ok := h.activeTasks(w, r)
	if !ok {
		return
	}

	pick := h.ranker.TomorrowTopPick(tasks)
	if pick == nil {
		respondJSON(w, http.StatusOK, map[string]any{"task": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"task": pick})
}

func (h *SuggestionHandler) activeTasks(w http.ResponseWriter, r *http.Request) ([]*models.Task, bool) {
	tasks, err := h.taskRepo.List(r.Context(), nil, nil)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return nil, false
	}
	return tasks, true
}
