package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IncrementScore adds delta to a board member's score, creating the member at
// delta if absent. It returns the new score.
func (s *Store) IncrementScore(ctx context.Context, board, member string, delta int64) (int64, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO boards (board, member, score) VALUES (?, ?, ?)
         ON CONFLICT (board, member) DO UPDATE SET score = score + ?`,
		board, member, delta, delta)
	if err != nil {
		return 0, fmt.Errorf("increment %s on board %s: %w", member, board, err)
	}
	return s.Score(ctx, board, member)
}

// EnsureMemberAt inserts a board member with the given score if the member is
// not already present. Existing scores are left untouched.
func (s *Store) EnsureMemberAt(ctx context.Context, board, member string, score int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO boards (board, member, score) VALUES (?, ?, ?)`,
		board, member, score)
	if err != nil {
		return fmt.Errorf("ensure %s on board %s: %w", member, board, err)
	}
	return nil
}

// HasMember reports whether the member exists on the board.
func (s *Store) HasMember(ctx context.Context, board, member string) (bool, error) {
	var one int
	row := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM boards WHERE board = ? AND member = ?`, board, member)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query member %s on board %s: %w", member, board, err)
	}
	return true, nil
}

// Score returns a member's score on the board, zero if absent.
func (s *Store) Score(ctx context.Context, board, member string) (int64, error) {
	var score int64
	row := s.db.QueryRowContext(ctx,
		`SELECT score FROM boards WHERE board = ? AND member = ?`, board, member)
	if err := row.Scan(&score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query score for %s on board %s: %w", member, board, err)
	}
	return score, nil
}

// Top returns up to limit members of the board ordered by descending score.
func (s *Store) Top(ctx context.Context, board string, limit int) ([]BoardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member, score FROM boards WHERE board = ? ORDER BY score DESC, member ASC LIMIT ?`,
		board, limit)
	if err != nil {
		return nil, fmt.Errorf("query board %s: %w", board, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []BoardEntry
	for rows.Next() {
		var entry BoardEntry
		if err := rows.Scan(&entry.Member, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan board entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate board %s: %w", board, err)
	}
	return entries, nil
}
