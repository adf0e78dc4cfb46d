package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/werkgeheugen/backend/internal/models"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, status *models.TaskStatus, category *models.TaskCategory) ([]*models.Task, error)
	ListSnoozedReady(ctx context.Context, now time.Time) ([]*models.Task, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatsRepositoryInterface defines the interface for stats repository operations
type StatsRepositoryInterface interface {
	Get(ctx context.Context) (*models.UserStats, error)
	Save(ctx context.Context, stats *models.UserStats) error
}

// BadgeRepositoryInterface defines the interface for badge repository operations
type BadgeRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Badge, error)
	Kinds(ctx context.Context) ([]models.BadgeKind, error)
	Create(ctx context.Context, badge *models.Badge) error
	MarkSeen(ctx context.Context, id uuid.UUID) error
}

// PlannerRepositoryInterface defines the interface for planner document operations
type PlannerRepositoryInterface interface {
	Get(ctx context.Context) (*models.PlannerDocument, error)
	Replace(ctx context.Context, doc *models.PlannerDocument) error
}

// Ensure concrete types implement the interfaces
var (
	_ TaskRepositoryInterface    = (*TaskRepository)(nil)
	_ StatsRepositoryInterface   = (*StatsRepository)(nil)
	_ BadgeRepositoryInterface   = (*BadgeRepository)(nil)
	_ PlannerRepositoryInterface = (*PlannerRepository)(nil)
)
