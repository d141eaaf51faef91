package game

import (
	"context"

	"fieldguide/internal/errdefs"
	"fieldguide/internal/logging"
	"fieldguide/internal/store"
)

// StartSession opens a timed run of rounds for the user. Starting while one
// is already running fails with ErrStateConflict.
func (e *Engine) StartSession(ctx context.Context, userID string) error {
	created, err := e.store.StartSession(ctx, userID)
	if err != nil {
		return err
	}
	if !created {
		return errdefs.Wrap(errdefs.ErrStateConflict, "game", "session start", "session already active", nil)
	}
	e.logger.InfoContext(ctx, "session started", logging.String("user", userID))
	return nil
}

// SessionView returns the user's running session. No running session fails
// with ErrNotFound.
func (e *Engine) SessionView(ctx context.Context, userID string) (*store.Session, error) {
	session, err := e.store.SessionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errdefs.Wrap(errdefs.ErrNotFound, "game", "session view", "no active session", nil)
	}
	return session, nil
}

// StopSession ends the user's running session and returns its final
// snapshot. No running session fails with ErrNotFound.
func (e *Engine) StopSession(ctx context.Context, userID string) (*store.Session, error) {
	session, err := e.store.StopSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errdefs.Wrap(errdefs.ErrNotFound, "game", "session stop", "no active session", nil)
	}
	e.logger.InfoContext(ctx, "session stopped",
		logging.String("user", userID),
		logging.Int64("total", session.Total),
	)
	return session, nil
}
