package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

// PlannerRepository stores the shared planner document as a single
// JSONB row. Every write replaces the document wholesale, so the last
// writer wins.
type PlannerRepository struct {
	db *DB
}

// NewPlannerRepository creates a new planner repository
func NewPlannerRepository(db *DB) *PlannerRepository {
	return &PlannerRepository{db: db}
}

// Get retrieves the planner document, seeding a default one when the
// row does not exist yet.
func (r *PlannerRepository) Get(ctx context.Context) (*models.PlannerDocument, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM planner_documents WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		doc := models.NewPlannerDocument()
		if err := r.Replace(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planner document: %w", err)
	}

	var doc models.PlannerDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planner document: %w", err)
	}

	return &doc, nil
}

// Replace overwrites the planner document with the given one
func (r *PlannerRepository) Replace(ctx context.Context, doc *models.PlannerDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal planner document: %w", err)
	}

	query := `
		INSERT INTO planner_documents (id, document, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, raw, time.Now()); err != nil {
		return fmt.Errorf("failed to replace planner document: %w", err)
	}

	return nil
}
