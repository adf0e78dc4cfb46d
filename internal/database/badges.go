package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/werkgeheugen/backend/internal/models"
)

// BadgeRepository handles badge database operations
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// List retrieves all unlocked badges, newest first
func (r *BadgeRepository) List(ctx context.Context) ([]*models.Badge, error) {
	query := `SELECT id, kind, earned_at, is_new FROM badges ORDER BY earned_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge := &models.Badge{}
		var kind string
		if err := rows.Scan(&badge.ID, &kind, &badge.EarnedAt, &badge.IsNew); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badge.Kind = models.ParseBadgeKind(kind)
		badges = append(badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badges: %w", err)
	}

	return badges, nil
}

// Kinds retrieves the set of already-unlocked badge kinds
func (r *BadgeRepository) Kinds(ctx context.Context) ([]models.BadgeKind, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind FROM badges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query badge kinds: %w", err)
	}
	defer rows.Close()

	var kinds []models.BadgeKind
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("failed to scan badge kind: %w", err)
		}
		kinds = append(kinds, models.ParseBadgeKind(kind))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badge kinds: %w", err)
	}

	return kinds, nil
}

// Create inserts a newly unlocked badge. Unlocking the same kind twice
// is a no-op thanks to the unique constraint.
func (r *BadgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (id, kind, earned_at, is_new)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, badge.ID, badge.Kind, badge.EarnedAt, badge.IsNew); err != nil {
		return fmt.Errorf("failed to create badge: %w", err)
	}
	return nil
}

// MarkSeen clears the is-new flag on a badge
func (r *BadgeRepository) MarkSeen(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE badges SET is_new = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark badge seen: %w", err)
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
