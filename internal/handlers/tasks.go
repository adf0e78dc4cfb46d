package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/export"
	"github.com/werkgeheugen/backend/internal/gamify"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/queue"
	"github.com/werkgeheugen/backend/internal/validation"
)

const (
	// MaxTaskTitleLength is the maximum length for a task title
	MaxTaskTitleLength = 500
	// MaxTaskNotesLength is the maximum length for task notes
	MaxTaskNotesLength = 10000
	// DefaultSnoozeHours is used when a snooze request names no duration
	DefaultSnoozeHours = 24
	// MaxSnoozeHours caps a single snooze at four weeks
	MaxSnoozeHours = 24 * 28
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskRepo database.TaskRepositoryInterface
	rewards  *rewarder
	logger   *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	taskRepo database.TaskRepositoryInterface,
	statsRepo database.StatsRepositoryInterface,
	badgeRepo database.BadgeRepositoryInterface,
	engine *gamify.Engine,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
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

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/export", h.ExportTasks).Methods("GET")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteTask).Methods("POST")
	r.HandleFunc("/{id}/snooze", h.SnoozeTask).Methods("POST")
	r.HandleFunc("/{id}/activate", h.ActivateTask).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title     string     `json:"title" validate:"required,min=1,max=500"`
	Notes     string     `json:"notes" validate:"max=10000"`
	Category  string     `json:"category" validate:"omitempty,task_category"`
	Priority  int        `json:"priority"`
	Effort    string     `json:"effort" validate:"omitempty,task_effort"`
	Status    string     `json:"status" validate:"omitempty,task_status"`
	IsUrgent  bool       `json:"is_urgent"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	MicroStep string     `json:"micro_step" validate:"max=500"`
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title     *string    `json:"title,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Category  *string    `json:"category,omitempty"`
	Priority  *int       `json:"priority,omitempty"`
	Effort    *string    `json:"effort,omitempty"`
	Status    *string    `json:"status,omitempty"`
	IsUrgent  *bool      `json:"is_urgent,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	MicroStep *string    `json:"micro_step,omitempty"`
}

// SnoozeTaskRequest names how long to park the task
type SnoozeTaskRequest struct {
	Hours int `json:"hours"`
}

// ListTasks lists tasks with optional status and category filters
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status *models.TaskStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateTaskStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.TaskStatus(s)
		status = &sEnum
	}

	var category *models.TaskCategory
	if c := r.URL.Query().Get("category"); c != "" {
		if err := validation.ValidateTaskCategory(c); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		cEnum := models.TaskCategory(c)
		category = &cEnum
	}

	tasks, err := h.taskRepo.List(ctx, status, category)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	req.Notes = validation.SanitizeText(req.Notes)
	req.MicroStep = validation.SanitizeText(req.MicroStep)

	if err := validation.Validate.Struct(req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Validation error")
		return
	}

	task := models.NewTask(req.Title)
	task.Notes = req.Notes
	task.Category = models.ParseCategory(req.Category)
	task.Priority = models.ParsePriority(req.Priority)
	task.Effort = models.ParseEffort(req.Effort)
	task.Status = models.ParseStatus(req.Status)
	task.IsUrgent = req.IsUrgent
	task.DueDate = req.DueDate
	task.MicroStep = req.MicroStep

	if err := h.taskRepo.Create(r.Context(), task); err != nil {
		h.logger.Error("task_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a single task
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask partially updates a task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if title == "" || len(title) > MaxTaskTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "title must be between 1 and 500 characters")
			return
		}
		task.Title = title
	}
	if req.Notes != nil {
		notes := validation.SanitizeText(*req.Notes)
		if len(notes) > MaxTaskNotesLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "notes too long")
			return
		}
		task.Notes = notes
	}
	if req.Category != nil {
		if err := validation.ValidateTaskCategory(*req.Category); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		task.Category = models.TaskCategory(*req.Category)
	}
	if req.Priority != nil {
		if err := validation.ValidatePriority(*req.Priority); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		task.Priority = models.TaskPriority(*req.Priority)
	}
	if req.Effort != nil {
		task.Effort = models.ParseEffort(*req.Effort)
	}
	if req.Status != nil {
		if err := validation.ValidateTaskStatus(*req.Status); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		h.applyStatusChange(task, models.TaskStatus(*req.Status))
	}
	if req.IsUrgent != nil {
		task.IsUrgent = *req.IsUrgent
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.MicroStep != nil {
		task.MicroStep = validation.SanitizeText(*req.MicroStep)
	}

	if err := h.taskRepo.Update(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// applyStatusChange routes a raw status update through the lifecycle
// helpers so timestamps stay consistent.
func (h *TaskHandler) applyStatusChange(task *models.Task, status models.TaskStatus) {
	now := time.Now()
	switch status {
	case models.StatusDone:
		task.MarkDone(now)
	case models.StatusActive:
		task.Activate(now)
	case models.StatusInbox:
		task.MoveToInbox(now)
	case models.StatusSnoozed:
		task.Snooze(now, DefaultSnoozeHours)
	}
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(r.Context(), id); err != nil {
		if err == database.ErrNotFound {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete task")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

// CompleteTaskResponse carries the completed task plus what it earned
type CompleteTaskResponse struct {
	Task          *models.Task       `json:"task"`
	PointsAwarded int                `json:"points_awarded"`
	NewBadges     []models.BadgeKind `json:"new_badges"`
}

// CompleteTask marks a task done and settles the reward
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	// Completing twice must not double-award.
	if task.Status == models.StatusDone {
		respondJSON(w, http.StatusOK, CompleteTaskResponse{Task: task, NewBadges: []models.BadgeKind{}})
		return
	}

	stats, err := h.rewards.statsRepo.Get(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load stats")
		return
	}

	wasInbox := task.Status == models.StatusInbox
	points := h.rewards.engine.CompleteTask(stats)
	task.MarkDone(time.Now())
	task.PointsEarned += points

	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	newKinds, err := h.rewards.settle(ctx, stats, points, fmt.Sprintf("taak afgerond: %s", task.Title), &task.ID)
	if err != nil {
		h.logger.Error("reward_settle_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record reward")
		return
	}

	// Category- and inbox-driven badges fall outside the stat counters.
	unlocked, err := h.rewards.unlockedKinds(ctx)
	if err == nil {
		var extras []models.BadgeKind
		if task.Category == models.CategoryFinancien {
			if hit, cerr := h.rewards.checkFinancienNinja(ctx, unlocked); cerr == nil && hit {
				extras = append(extras, models.BadgeFinancienNinja)
			}
		}
		if wasInbox {
			if hit, cerr := h.rewards.checkInboxZero(ctx, unlocked); cerr == nil && hit {
				extras = append(extras, models.BadgeInboxZero)
			}
		}
		if len(extras) > 0 {
			if uerr := h.rewards.unlockExtras(ctx, extras); uerr == nil {
				newKinds = append(newKinds, extras...)
			}
		}
	}

	if newKinds == nil {
		newKinds = []models.BadgeKind{}
	}
	respondJSON(w, http.StatusOK, CompleteTaskResponse{
		Task:          task,
		PointsAwarded: points,
		NewBadges:     newKinds,
	})
}

// SnoozeTask parks a task for a number of hours
func (h *TaskHandler) SnoozeTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	req := SnoozeTaskRequest{Hours: DefaultSnoozeHours}
	if r.ContentLength != 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}
	if req.Hours <= 0 || req.Hours > MaxSnoozeHours {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("hours must be between 1 and %d", MaxSnoozeHours))
		return
	}

	task.Snooze(time.Now(), req.Hours)
	if err := h.taskRepo.Update(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// ActivateTask moves a task to active and clears any snooze
func (h *TaskHandler) ActivateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	task.Activate(time.Now())
	if err := h.taskRepo.Update(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// ExportTasks streams all tasks as JSON or CSV
func (h *TaskHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskRepo.List(r.Context(), nil, nil)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}

	format := export.ParseFormat(r.URL.Query().Get("format"))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)

	if err := export.Write(w, format, tasks); err != nil {
		h.logger.Error("task_export_failed", zap.Error(err))
	}
}

func (h *TaskHandler) loadTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id, ok := parseTaskID(w, r)
	if !ok {
		return nil, false
	}

	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		if err == database.ErrNotFound {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
			return nil, false
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve task")
		return nil, false
	}
	return task, true
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeRequest decodes a JSON body, translating size-limit errors.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return false
	}
	return true
}
