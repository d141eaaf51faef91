package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EnsureChannel creates the channel record if it does not already exist.
func (s *Store) EnsureChannel(ctx context.Context, channelID string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO channel_states (channel_id, created_at, updated_at) VALUES (?, ?, ?)`,
		channelID, now, now)
	if err != nil {
		return fmt.Errorf("ensure channel %s: %w", channelID, err)
	}
	return nil
}

// Channel returns the state for a channel, or nil if none exists.
func (s *Store) Channel(ctx context.Context, channelID string) (*ChannelState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT channel_id, current_subject, answered, previous_subject, cursor, created_at, updated_at
         FROM channel_states WHERE channel_id = ?`, channelID)
	state, err := scanChannelState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query channel %s: %w", channelID, err)
	}
	return state, nil
}

// BeginRound records a new round in one atomic update: the subject being
// presented, the subject it replaces, and the cursor position that chose it.
func (s *Store) BeginRound(ctx context.Context, channelID, subject, previousSubject string, cursor int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE channel_states
         SET current_subject = ?, answered = 0, previous_subject = ?, cursor = ?, updated_at = ?
         WHERE channel_id = ?`,
		subject, previousSubject, cursor, formatTime(time.Now()), channelID)
	if err != nil {
		return fmt.Errorf("begin round for %s: %w", channelID, err)
	}
	return requireRow(result, channelID)
}

// FinishRound closes the current round, keeping its subject as the previous
// subject for exclusion in the next draw. The update only applies while a
// round is open, so of two concurrent resolutions exactly one observes
// closed=true.
func (s *Store) FinishRound(ctx context.Context, channelID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE channel_states
         SET previous_subject = current_subject, current_subject = '', answered = 1, updated_at = ?
         WHERE channel_id = ? AND answered = 0`,
		formatTime(time.Now()), channelID)
	if err != nil {
		return false, fmt.Errorf("finish round for %s: %w", channelID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetCursor persists the channel's rotation position.
func (s *Store) SetCursor(ctx context.Context, channelID string, cursor int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE channel_states SET cursor = ?, updated_at = ? WHERE channel_id = ?`,
		cursor, formatTime(time.Now()), channelID)
	if err != nil {
		return fmt.Errorf("set cursor for %s: %w", channelID, err)
	}
	return requireRow(result, channelID)
}

func requireRow(result sql.Result, channelID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("channel %s does not exist", channelID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannelState(row rowScanner) (*ChannelState, error) {
	var (
		state     ChannelState
		answered  int
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&state.ChannelID, &state.CurrentSubject, &answered,
		&state.PreviousSubject, &state.Cursor, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	state.Answered = answered != 0
	if parsed, err := parseTimeString(createdAt); err == nil {
		state.CreatedAt = parsed
	}
	if parsed, err := parseTimeString(updatedAt); err == nil {
		state.UpdatedAt = parsed
	}
	return &state, nil
}
