package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartSession creates a running session for the user. The created result is
// false if a session was already running.
func (s *Store) StartSession(ctx context.Context, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (user_id, started_at) VALUES (?, ?)`,
		userID, formatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("start session for %s: %w", userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SessionByUser returns the user's running session, or nil if none exists.
func (s *Store) SessionByUser(ctx context.Context, userID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, started_at, stopped_at, correct, incorrect, total
         FROM sessions WHERE user_id = ?`, userID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session for %s: %w", userID, err)
	}
	return session, nil
}

// AddSessionCounts adds a round outcome to the user's running session. The
// total delta is carried separately so skips count a round without counting
// an answer. Users without a session are ignored.
func (s *Store) AddSessionCounts(ctx context.Context, userID string, correct, incorrect, total int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions
         SET correct = correct + ?, incorrect = incorrect + ?, total = total + ?
         WHERE user_id = ?`,
		correct, incorrect, total, userID)
	if err != nil {
		return fmt.Errorf("update session counts for %s: %w", userID, err)
	}
	return nil
}

// StopSession ends the user's session and returns its final snapshot, or nil
// if no session was running.
func (s *Store) StopSession(ctx context.Context, userID string) (*Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET stopped_at = ? WHERE user_id = ?`,
		formatTime(time.Now()), userID); err != nil {
		return nil, fmt.Errorf("stamp session for %s: %w", userID, err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT user_id, started_at, stopped_at, correct, incorrect, total
         FROM sessions WHERE user_id = ?`, userID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot session for %s: %w", userID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("delete session for %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit session stop: %w", err)
	}
	return session, nil
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session   Session
		startedAt string
		stoppedAt sql.NullString
	)
	if err := row.Scan(&session.UserID, &startedAt, &stoppedAt,
		&session.Correct, &session.Incorrect, &session.Total); err != nil {
		return nil, err
	}
	if parsed, err := parseTimeString(startedAt); err == nil {
		session.StartedAt = parsed
	}
	if stoppedAt.Valid {
		if parsed, err := parseTimeString(stoppedAt.String); err == nil {
			session.StoppedAt = parsed
		}
	}
	return &session, nil
}
