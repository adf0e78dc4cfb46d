package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/werkgeheugen/backend/internal/models"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, notes, category, priority, effort, status, is_urgent,
	due_date, snooze_until, micro_step, points_earned, created_at, updated_at, completed_at`

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, notes, category, priority, effort, status, is_urgent,
			due_date, snooze_until, micro_step, points_earned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Notes,
		task.Category,
		task.Priority,
		task.Effort,
		task.Status,
		task.IsUrgent,
		nullTime(task.DueDate),
		nullTime(task.SnoozeUntil),
		task.MicroStep,
		task.PointsEarned,
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List retrieves all tasks, optionally filtered by status and category
func (r *TaskRepository) List(ctx context.Context, status *models.TaskStatus, category *models.TaskCategory) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}
	argIndex := 1

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(*status))
		argIndex++
	}

	if category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, string(*category))
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListSnoozedReady retrieves snoozed tasks whose snooze has lapsed
func (r *TaskRepository) ListSnoozedReady(ctx context.Context, now time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status = 'snoozed' AND snooze_until IS NOT NULL AND snooze_until <= $1
		ORDER BY snooze_until ASC`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query snoozed tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// CountByStatus returns the number of tasks in the given status
func (r *TaskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, notes = $3, category = $4, priority = $5, effort = $6,
			status = $7, is_urgent = $8, due_date = $9, snooze_until = $10,
			micro_step = $11, points_earned = $12, updated_at = $13, completed_at = $14
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Notes,
		task.Category,
		task.Priority,
		task.Effort,
		task.Status,
		task.IsUrgent,
		nullTime(task.DueDate),
		nullTime(task.SnoozeUntil),
		task.MicroStep,
		task.PointsEarned,
		now,
		nullTime(task.CompletedAt),
	).Scan(&task.UpdatedAt)

	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete deletes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var dueDate, snoozeUntil, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Notes,
		&task.Category,
		&task.Priority,
		&task.Effort,
		&task.Status,
		&task.IsUrgent,
		&dueDate,
		&snoozeUntil,
		&task.MicroStep,
		&task.PointsEarned,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if snoozeUntil.Valid {
		task.SnoozeUntil = &snoozeUntil.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

func collectTasks(rows *sql.Rows) ([]*models.Task, error) {
	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
