package store

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS channel_states (
        channel_id TEXT PRIMARY KEY,
        current_subject TEXT NOT NULL DEFAULT '',
        answered INTEGER NOT NULL DEFAULT 1,
        previous_subject TEXT NOT NULL DEFAULT '',
        cursor INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS sessions (
        user_id TEXT PRIMARY KEY,
        started_at TEXT NOT NULL,
        stopped_at TEXT,
        correct INTEGER NOT NULL DEFAULT 0,
        incorrect INTEGER NOT NULL DEFAULT 0,
        total INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS boards (
        board TEXT NOT NULL,
        member TEXT NOT NULL,
        score INTEGER NOT NULL DEFAULT 0,
        PRIMARY KEY (board, member)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_boards_score ON boards (board, score DESC)`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
