package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/werkgeheugen/backend/internal/models"
)

// StatsRepository handles gamification stats database operations.
// The app tracks one stats record; Get lazily creates it.
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get retrieves the stats record, creating a fresh one when none exists
func (r *StatsRepository) Get(ctx context.Context) (*models.UserStats, error) {
	query := `
		SELECT id, total_points, level, current_streak, longest_streak, last_check_in_date,
			tasks_completed, micro_steps_completed, inbox_triaged, voice_captures_used,
			focus_sessions_completed, created_at
		FROM user_stats
		ORDER BY created_at ASC
		LIMIT 1
	`

	stats := &models.UserStats{}
	var lastCheckIn sql.NullTime

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.ID,
		&stats.TotalPoints,
		&stats.Level,
		&stats.CurrentStreak,
		&stats.LongestStreak,
		&lastCheckIn,
		&stats.TasksCompleted,
		&stats.MicroStepsCompleted,
		&stats.InboxTriaged,
		&stats.VoiceCapturesUsed,
		&stats.FocusSessionsCompleted,
		&stats.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return r.create(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if lastCheckIn.Valid {
		stats.LastCheckInDate = &lastCheckIn.Time
	}

	return stats, nil
}

// Save persists the stats record
func (r *StatsRepository) Save(ctx context.Context, stats *models.UserStats) error {
	query := `
		UPDATE user_stats
		SET total_points = $2, level = $3, current_streak = $4, longest_streak = $5,
			last_check_in_date = $6, tasks_completed = $7, micro_steps_completed = $8,
			inbox_triaged = $9, voice_captures_used = $10, focus_sessions_completed = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		stats.ID,
		stats.TotalPoints,
		stats.Level,
		stats.CurrentStreak,
		stats.LongestStreak,
		nullTime(stats.LastCheckInDate),
		stats.TasksCompleted,
		stats.MicroStepsCompleted,
		stats.InboxTriaged,
		stats.VoiceCapturesUsed,
		stats.FocusSessionsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
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

func (r *StatsRepository) create(ctx context.Context) (*models.UserStats, error) {
	stats := models.NewUserStats()

	query := `
		INSERT INTO user_stats (id, total_points, level, current_streak, longest_streak,
			tasks_completed, micro_steps_completed, inbox_triaged, voice_captures_used,
			focus_sessions_completed, created_at)
		VALUES ($1, 0, 1, 0, 0, 0, 0, 0, 0, 0, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, stats.ID, stats.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create stats: %w", err)
	}

	return stats, nil
}
