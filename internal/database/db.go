package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// DB wraps the database connection pool
type DB struct {
	*sql.DB
}

// New opens a Postgres connection pool and verifies it
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate applies the schema. Statements are idempotent so this is
// safe to run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'overig',
			priority INT NOT NULL DEFAULT 3,
			effort TEXT NOT NULL DEFAULT 'klein',
			status TEXT NOT NULL DEFAULT 'inbox',
			is_urgent BOOLEAN NOT NULL DEFAULT FALSE,
			due_date TIMESTAMPTZ,
			snooze_until TIMESTAMPTZ,
			micro_step TEXT NOT NULL DEFAULT '',
			points_earned INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks (category)`,
		`CREATE TABLE IF NOT EXISTS user_stats (
			id UUID PRIMARY KEY,
			total_points INT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			current_streak INT NOT NULL DEFAULT 0,
			longest_streak INT NOT NULL DEFAULT 0,
			last_check_in_date TIMESTAMPTZ,
			tasks_completed INT NOT NULL DEFAULT 0,
			micro_steps_completed INT NOT NULL DEFAULT 0,
			inbox_triaged INT NOT NULL DEFAULT 0,
			voice_captures_used INT NOT NULL DEFAULT 0,
			focus_sessions_completed INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL UNIQUE,
			earned_at TIMESTAMPTZ NOT NULL,
			is_new BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS planner_documents (
			id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			document JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
