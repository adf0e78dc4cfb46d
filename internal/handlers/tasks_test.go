package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/gamify"
	"github.com/werkgeheugen/backend/internal/models"
)

type taskFixture struct {
	router    *mux.Router
	taskRepo  *fakeTaskRepo
	statsRepo *fakeStatsRepo
	badgeRepo *fakeBadgeRepo
	jobQueue  *fakeQueue
}

func newTaskFixture(tasks ...*models.Task) *taskFixture {
	f := &taskFixture{
		taskRepo:  newFakeTaskRepo(tasks...),
		statsRepo: newFakeStatsRepo(),
		badgeRepo: &fakeBadgeRepo{},
		jobQueue:  &fakeQueue{},
	}
	handler := NewTaskHandler(f.taskRepo, f.statsRepo, f.badgeRepo, &gamify.Engine{}, f.jobQueue, zap.NewNop())
	f.router = mux.NewRouter()
	handler.RegisterRoutes(f.router.PathPrefix("/api/v1/tasks").Subrouter())
	return f
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return envelope
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid task",
			body:       `{"title":"Belastingaangifte","category":"financien","priority":1,"effort":"middel"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"category":"werk"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown category",
			body:       `{"title":"Iets","category":"hobby"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newTaskFixture()
			req := httptest.NewRequest("POST", "/api/v1/tasks", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	req := httptest.NewRequest("POST", "/api/v1/tasks", strings.NewReader(`{"title":"Schuur opruimen"}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	if data["category"] != "overig" {
		t.Errorf("Expected default category 'overig', got %v", data["category"])
	}
	if data["status"] != "inbox" {
		t.Errorf("Expected default status 'inbox', got %v", data["status"])
	}
	if data["effort"] != "klein" {
		t.Errorf("Expected default effort 'klein', got %v", data["effort"])
	}
}

func TestListTasks_StatusFilter(t *testing.T) {
	t.Parallel()

	active := models.NewTask("Actief")
	active.Status = models.StatusActive
	done := models.NewTask("Klaar")
	done.Status = models.StatusDone

	f := newTaskFixture(active, done)
	req := httptest.NewRequest("GET", "/api/v1/tasks?status=active", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body)
	tasks := envelope["data"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if title := tasks[0].(map[string]any)["title"]; title != "Actief" {
		t.Errorf("Expected task 'Actief', got %v", title)
	}
}

func TestListTasks_InvalidStatus(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	req := httptest.NewRequest("GET", "/api/v1/tasks?status=archived", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	req := httptest.NewRequest("GET", "/api/v1/tasks/2a9e6f3c-98f1-4ab4-b0f8-6aa83a3a5f71", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetTask_InvalidID(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	req := httptest.NewRequest("GET", "/api/v1/tasks/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateTask_StatusTransition(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Mail beantwoorden")
	f := newTaskFixture(task)

	req := httptest.NewRequest("PATCH", "/api/v1/tasks/"+task.ID.String(), strings.NewReader(`{"status":"active","priority":1}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if task.Status != models.StatusActive {
		t.Errorf("Expected status active, got %s", task.Status)
	}
	if task.Priority != models.PriorityP1 {
		t.Errorf("Expected priority 1, got %d", task.Priority)
	}
}

func TestCompleteTask_AwardsPointsAndPublishes(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Teamapp checken")
	task.Status = models.StatusActive
	f := newTaskFixture(task)

	req := httptest.NewRequest("POST", "/api/v1/tasks/"+task.ID.String()+"/complete", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	if points := data["points_awarded"].(float64); points != float64(models.PointsTaskDone) {
		t.Errorf("Expected %d points awarded, got %v", models.PointsTaskDone, points)
	}

	if task.Status != models.StatusDone {
		t.Errorf("Expected task to be done, got %s", task.Status)
	}
	if task.PointsEarned != models.PointsTaskDone {
		t.Errorf("Expected task points %d, got %d", models.PointsTaskDone, task.PointsEarned)
	}
	if f.statsRepo.stats.TotalPoints != models.PointsTaskDone {
		t.Errorf("Expected stats points %d, got %d", models.PointsTaskDone, f.statsRepo.stats.TotalPoints)
	}
	if f.statsRepo.stats.TasksCompleted != 1 {
		t.Errorf("Expected 1 completed task, got %d", f.statsRepo.stats.TasksCompleted)
	}
	if len(f.jobQueue.jobs) != 1 {
		t.Fatalf("Expected 1 enqueued job, got %d", len(f.jobQueue.jobs))
	}
	if f.jobQueue.jobs[0].Points != models.PointsTaskDone {
		t.Errorf("Expected job points %d, got %d", models.PointsTaskDone, f.jobQueue.jobs[0].Points)
	}
}

func TestCompleteTask_Idempotent(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Al klaar")
	f := newTaskFixture(task)

	url := "/api/v1/tasks/" + task.ID.String() + "/complete"
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest("POST", url, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 on attempt %d, got %d", i+1, rec.Code)
		}
	}

	if f.statsRepo.stats.TotalPoints != models.PointsTaskDone {
		t.Errorf("Expected points awarded once, got %d", f.statsRepo.stats.TotalPoints)
	}
	if task.PointsEarned != models.PointsTaskDone {
		t.Errorf("Expected task points %d, got %d", models.PointsTaskDone, task.PointsEarned)
	}
}

func TestSnoozeTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "explicit hours", body: `{"hours":48}`, wantStatus: http.StatusOK},
		{name: "zero hours", body: `{"hours":0}`, wantStatus: http.StatusBadRequest},
		{name: "too long", body: `{"hours":2000}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task := models.NewTask("Later")
			f := newTaskFixture(task)

			req := httptest.NewRequest("POST", "/api/v1/tasks/"+task.ID.String()+"/snooze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if task.Status != models.StatusSnoozed {
					t.Errorf("Expected status snoozed, got %s", task.Status)
				}
				if task.SnoozeUntil == nil {
					t.Error("Expected snooze_until to be set")
				}
			}
		})
	}
}

func TestActivateTask_ClearsSnooze(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Weer oppakken")
	f := newTaskFixture(task)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tasks/"+task.ID.String()+"/snooze", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Snooze failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tasks/"+task.ID.String()+"/activate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	if task.Status != models.StatusActive {
		t.Errorf("Expected status active, got %s", task.Status)
	}
	if task.SnoozeUntil != nil {
		t.Error("Expected snooze_until to be cleared")
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Weg ermee")
	f := newTaskFixture(task)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/v1/tasks/"+task.ID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/v1/tasks/"+task.ID.String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestExportTasks_CSV(t *testing.T) {
	t.Parallel()

	task := models.NewTask("Contributie betalen")
	task.Category = models.CategoryVoetbal
	f := newTaskFixture(task)

	req := httptest.NewRequest("GET", "/api/v1/tasks/export?format=csv", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Expected CSV Content-Type, got '%s'", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "werkgeheugen-taken.csv") {
		t.Errorf("Expected filename in Content-Disposition, got '%s'", cd)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "title,notes,categorie") {
		t.Errorf("Expected CSV header, got: %s", body)
	}
	if !strings.Contains(body, "Contributie betalen") {
		t.Errorf("Expected task row in CSV, got: %s", body)
	}
}

func TestExportTasks_DefaultJSON(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(models.NewTask("Iets"))
	req := httptest.NewRequest("GET", "/api/v1/tasks/export", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
	}

	var tasks []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("Expected 1 exported task, got %d", len(tasks))
	}
}
