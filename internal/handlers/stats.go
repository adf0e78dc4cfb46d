package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/gamify"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/queue"
)

// MaxTriageCount caps a single triage batch
const MaxTriageCount = 500

// StatsHandler handles stats and gamification action requests
type StatsHandler struct {
	rewards *rewarder
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	statsRepo database.StatsRepositoryInterface,
	badgeRepo database.BadgeRepositoryInterface,
	taskRepo database.TaskRepositoryInterface,
	engine *gamify.Engine,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *StatsHandler {
	return &StatsHandler{
		rewards: &rewarder{
			statsRepo: statsRepo,
			badgeRepo: badgeRepo,
			taskRepo:  taskRepo,
			engine:    engine,
			jobQueue:  jobQueue,
			logger:    logger,
		},
		logger: logger,
	}
}

// RegisterRoutes registers stats routes on the given router
// The router should already have the /stats prefix
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetStats).Methods("GET")
	r.HandleFunc("/checkin", h.CheckIn).Methods("POST")
	r.HandleFunc("/microstep", h.CompleteMicroStep).Methods("POST")
	r.HandleFunc("/voice", h.UseVoiceCapture).Methods("POST")
	r.HandleFunc("/focus", h.CompleteFocusSession).Methods("POST")
	r.HandleFunc("/triage", h.TriageInbox).Methods("POST")
}

// StatsResponse wraps user stats with derived level info
type StatsResponse struct {
	*models.UserStats
	PointsToNextLevel int     `json:"points_to_next_level"`
	LevelProgress     float64 `json:"level_progress"`
}

// ActionResponse reports what a gamification action earned
type ActionResponse struct {
	Stats         *models.UserStats  `json:"stats"`
	PointsAwarded int                `json:"points_awarded"`
	NewBadges     []models.BadgeKind `json:"new_badges"`
}

// MicroStepRequest optionally ties a micro-step to a task
type MicroStepRequest struct {
	TaskID *uuid.UUID `json:"task_id,omitempty"`
}

// TriageRequest reports how many inbox items were handled in one sitting
type TriageRequest struct {
	Count int `json:"count"`
}

// GetStats returns the current user stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rewards.statsRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		UserStats:         stats,
		PointsToNextLevel: stats.PointsToNextLevel(),
		LevelProgress:     stats.LevelProgress(),
	})
}

// CheckIn records the daily check-in and advances the streak
func (h *StatsHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.rewards.statsRepo.Get(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	if stats.HasCheckedInToday(time.Now()) {
		respondJSONError(w, http.StatusConflict, "Conflict", "Already checked in today")
		return
	}

	points := h.rewards.engine.CompleteCheckIn(stats)
	h.finishAction(w, r, stats, points, "dagelijkse check-in", nil, false)
}

// CompleteMicroStep awards points for a finished micro-step
func (h *StatsHandler) CompleteMicroStep(w http.ResponseWriter, r *http.Request) {
	var req MicroStepRequest
	if r.ContentLength != 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}

	ctx := r.Context()
	stats, err := h.rewards.statsRepo.Get(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	// Attribute the step to its task when one is named.
	if req.TaskID != nil {
		task, terr := h.rewards.taskRepo.GetByID(ctx, *req.TaskID)
		if terr == nil {
			task.PointsEarned += models.PointsMicroStep
			if uerr := h.rewards.taskRepo.Update(ctx, task); uerr != nil {
				h.logger.Warn("microstep_task_update_failed", zap.Error(uerr))
			}
		} else if terr != database.ErrNotFound {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load task")
			return
		}
	}

	points := h.rewards.engine.CompleteMicroStep(stats)
	h.finishAction(w, r, stats, points, "microstap afgerond", req.TaskID, false)
}

// UseVoiceCapture awards points for capturing a task by voice
func (h *StatsHandler) UseVoiceCapture(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rewards.statsRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	points := h.rewards.engine.UseVoiceCapture(stats)
	h.finishAction(w, r, stats, points, "spraaknotitie gebruikt", nil, false)
}

// CompleteFocusSession awards points for a finished focus session
func (h *StatsHandler) CompleteFocusSession(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rewards.statsRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	points := h.rewards.engine.CompleteFocusSession(stats)
	h.finishAction(w, r, stats, points, "focussessie afgerond", nil, false)
}

// TriageInbox records an inbox triage batch
func (h *StatsHandler) TriageInbox(w http.ResponseWriter, r *http.Request) {
	var req TriageRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Count <= 0 || req.Count > MaxTriageCount {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "count must be between 1 and 500")
		return
	}

	ctx := r.Context()
	stats, err := h.rewards.statsRepo.Get(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	points := h.rewards.engine.TriageInbox(stats, req.Count)
	h.finishAction(w, r, stats, points, "inbox opgeruimd", nil, true)
}

// finishAction settles the reward and responds. checkInbox is set by
// actions that can drain the inbox, so the inbox-zero badge only
// unlocks when the user actually emptied it.
func (h *StatsHandler) finishAction(w http.ResponseWriter, r *http.Request, stats *models.UserStats, points int, reason string, taskID *uuid.UUID, checkInbox bool) {
	ctx := r.Context()

	newKinds, err := h.rewards.settle(ctx, stats, points, reason, taskID)
	if err != nil {
		h.logger.Error("reward_settle_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record reward")
		return
	}

	if checkInbox {
		if unlocked, uerr := h.rewards.unlockedKinds(ctx); uerr == nil {
			if hit, cerr := h.rewards.checkInboxZero(ctx, unlocked); cerr == nil && hit {
				if xerr := h.rewards.unlockExtras(ctx, []models.BadgeKind{models.BadgeInboxZero}); xerr == nil {
					newKinds = append(newKinds, models.BadgeInboxZero)
				}
			}
		}
	}

	if newKinds == nil {
		newKinds = []models.BadgeKind{}
	}
	respondJSON(w, http.StatusOK, ActionResponse{
		Stats:         stats,
		PointsAwarded: points,
		NewBadges:     newKinds,
	})
}
