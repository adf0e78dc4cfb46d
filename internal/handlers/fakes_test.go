package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/queue"
)

// fakeTaskRepo is an in-memory TaskRepositoryInterface for handler tests
type fakeTaskRepo struct {
	tasks   map[uuid.UUID]*models.Task
	failAll bool
}

func newFakeTaskRepo(tasks ...*models.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

var errFakeRepo = errors.New("repository unavailable")

func (f *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	if f.failAll {
		return errFakeRepo
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	if f.failAll {
		return nil, errFakeRepo
	}
	task, ok := f.tasks[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) List(_ context.Context, status *models.TaskStatus, category *models.TaskCategory) ([]*models.Task, error) {
	if f.failAll {
		return nil, errFakeRepo
	}
	var out []*models.Task
	for _, task := range f.tasks {
		if status != nil && task.Status != *status {
			continue
		}
		if category != nil && task.Category != *category {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskRepo) ListSnoozedReady(_ context.Context, now time.Time) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range f.tasks {
		if task.IsSnoozedAndReady(now) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountByStatus(_ context.Context, status models.TaskStatus) (int, error) {
	if f.failAll {
		return 0, errFakeRepo
	}
	count := 0
	for _, task := range f.tasks {
		if task.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	if f.failAll {
		return errFakeRepo
	}
	if _, ok := f.tasks[task.ID]; !ok {
		return database.ErrNotFound
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.failAll {
		return errFakeRepo
	}
	if _, ok := f.tasks[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

// fakeStatsRepo holds the single stats row in memory
type fakeStatsRepo struct {
	stats *models.UserStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: models.NewUserStats()}
}

func (f *fakeStatsRepo) Get(_ context.Context) (*models.UserStats, error) {
	return f.stats, nil
}

func (f *fakeStatsRepo) Save(_ context.Context, stats *models.UserStats) error {
	f.stats = stats
	return nil
}

// fakeBadgeRepo holds unlocked badges in memory
type fakeBadgeRepo struct {
	badges []*models.Badge
}

func (f *fakeBadgeRepo) List(_ context.Context) ([]*models.Badge, error) {
	return f.badges, nil
}

func (f *fakeBadgeRepo) Kinds(_ context.Context) ([]models.BadgeKind, error) {
	kinds := make([]models.BadgeKind, 0, len(f.badges))
	for _, b := range f.badges {
		kinds = append(kinds, b.Kind)
	}
	return kinds, nil
}

func (f *fakeBadgeRepo) Create(_ context.Context, badge *models.Badge) error {
	for _, b := range f.badges {
		if b.Kind == badge.Kind {
			return nil
		}
	}
	f.badges = append(f.badges, badge)
	return nil
}

func (f *fakeBadgeRepo) MarkSeen(_ context.Context, id uuid.UUID) error {
	for _, b := range f.badges {
		if b.ID == id {
			b.MarkSeen()
			return nil
		}
	}
	return database.ErrNotFound
}

// fakePlannerRepo holds the planner document in memory
type fakePlannerRepo struct {
	doc *models.PlannerDocument
}

func newFakePlannerRepo() *fakePlannerRepo {
	return &fakePlannerRepo{doc: models.NewPlannerDocument()}
}

func (f *fakePlannerRepo) Get(_ context.Context) (*models.PlannerDocument, error) {
	return f.doc, nil
}

func (f *fakePlannerRepo) Replace(_ context.Context, doc *models.PlannerDocument) error {
	f.doc = doc
	return nil
}

// fakeQueue records enqueued jobs
type fakeQueue struct {
	jobs []*queue.Job
}

func (f *fakeQueue) Enqueue(_ context.Context, job *queue.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Dequeue(_ context.Context) (*queue.Message, error) { return nil, nil }

func (f *fakeQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) HealthCheck(_ context.Context) error { return nil }

var (
	_ database.TaskRepositoryInterface    = (*fakeTaskRepo)(nil)
	_ database.StatsRepositoryInterface   = (*fakeStatsRepo)(nil)
	_ database.BadgeRepositoryInterface   = (*fakeBadgeRepo)(nil)
	_ database.PlannerRepositoryInterface = (*fakePlannerRepo)(nil)
	_ queue.JobQueue                      = (*fakeQueue)(nil)
)
