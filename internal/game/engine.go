// Package game implements the round engine: per-channel round state
// transitions, cursor-based media selection, guess matching, and the score
// and session ledgers behind them.
package game

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/errdefs"
	"fieldguide/internal/logging"
	"fieldguide/internal/match"
	"fieldguide/internal/store"
)

// MediaSource resolves a subject to local media files, fetching on miss.
type MediaSource interface {
	Files(ctx context.Context, domain *catalog.Domain, subject string) ([]string, error)
}

// Round is one presented media sample awaiting a guess or skip.
type Round struct {
	ChannelID string
	Domain    string
	Subject   string
	FilePath  string
	Repeat    bool
}

// Outcome reports the result of a guess.
type Outcome struct {
	Correct     bool
	Subject     string
	GlobalScore int64
}

// Engine coordinates rounds across channels. All state lives in the store;
// the engine itself is stateless and safe for concurrent use.
type Engine struct {
	catalogs  *catalog.Set
	source    MediaSource
	selector  *Selector
	store     *store.Store
	tolerance int
	logger    *slog.Logger
}

// NewEngine wires the round engine from its collaborators.
func NewEngine(cfg *config.Config, catalogs *catalog.Set, source MediaSource, st *store.Store, logger *slog.Logger) *Engine {
	return &Engine{
		catalogs:  catalogs,
		source:    source,
		selector:  NewSelector(cfg.Cache.MaxFileBytes),
		store:     st,
		tolerance: cfg.Matcher.Tolerance,
		logger:    logging.NewComponentLogger(logger, "game"),
	}
}

// PresentRound starts a round in the channel, or repeats the open one. A new
// round draws a subject excluding the channel's previous subject and advances
// the rotation cursor; repeating an open round returns the same file without
// mutating state. Selection exhaustion on a repeat clears the stuck round so
// the channel is never left wedged.
func (e *Engine) PresentRound(ctx context.Context, channelID, userID, domainName string) (*Round, error) {
	domain, err := e.catalogs.Domain(domainName)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrValidation, "game", "present", "unknown domain", err)
	}
	if err := e.store.EnsureChannel(ctx, channelID); err != nil {
		return nil, err
	}
	state, err := e.store.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if state.Presenting() {
		return e.repeatRound(ctx, domain, state)
	}

	subject := domain.Pick(state.PreviousSubject)
	if subject == "" {
		return nil, errdefs.Wrap(errdefs.ErrNotFound, "game", "present", "empty catalog", nil)
	}
	files, err := e.source.Files(ctx, domain, subject)
	if err != nil {
		return nil, err
	}
	path, cursor, err := e.selector.Next(domain, files, state.Cursor)
	if err != nil {
		return nil, err
	}
	if err := e.store.BeginRound(ctx, channelID, subject, subject, cursor); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "round started",
		logging.String("channel", channelID),
		logging.String("user", userID),
		logging.String("domain", domain.Name),
		logging.String("subject", subject),
	)
	return &Round{
		ChannelID: channelID,
		Domain:    domain.Name,
		Subject:   subject,
		FilePath:  path,
	}, nil
}

func (e *Engine) repeatRound(ctx context.Context, domain *catalog.Domain, state *store.ChannelState) (*Round, error) {
	files, err := e.source.Files(ctx, domain, state.CurrentSubject)
	if err != nil {
		return nil, e.unwedge(ctx, state.ChannelID, err)
	}
	path, _, err := e.selector.Current(domain, files, state.Cursor)
	if err != nil {
		return nil, e.unwedge(ctx, state.ChannelID, err)
	}
	return &Round{
		ChannelID: state.ChannelID,
		Domain:    domain.Name,
		Subject:   state.CurrentSubject,
		FilePath:  path,
		Repeat:    true,
	}, nil
}

// unwedge clears the current round after a selection failure, the same
// transition a skip performs, so the next request can start fresh.
func (e *Engine) unwedge(ctx context.Context, channelID string, cause error) error {
	if !errdefs.Retryable(cause) {
		return cause
	}
	e.logger.WarnContext(ctx, "clearing stuck round",
		logging.String("channel", channelID),
		logging.Error(cause),
	)
	if _, err := e.store.FinishRound(ctx, channelID); err != nil {
		e.logger.ErrorContext(ctx, "failed to clear stuck round",
			logging.String("channel", channelID),
			logging.Error(err),
		)
	}
	return cause
}

// SubmitGuess resolves the channel's open round against a free-text guess.
// Correct or not, the round transitions to idle; scores move only on a
// correct guess. Guessing with no round open fails with ErrNotFound.
func (e *Engine) SubmitGuess(ctx context.Context, channelID, userID, guildID, text string) (*Outcome, error) {
	state, err := e.store.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !state.Presenting() {
		return nil, errdefs.Wrap(errdefs.ErrNotFound, "game", "guess", "no round in progress", nil)
	}
	subject := state.CurrentSubject
	correct := match.Matches(text, subject, e.tolerance)

	// The close is a compare-and-swap: if a concurrent guess already resolved
	// this round, only the winner records counters and scores.
	closed, err := e.store.FinishRound(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, errdefs.Wrap(errdefs.ErrNotFound, "game", "guess", "no round in progress", nil)
	}

	outcome := &Outcome{Correct: correct, Subject: subject}
	if correct {
		if err := e.store.AddSessionCounts(ctx, userID, 1, 0, 1); err != nil {
			return nil, err
		}
		score, err := e.recordCorrect(ctx, channelID, userID, guildID)
		if err != nil {
			return nil, err
		}
		outcome.GlobalScore = score
	} else {
		if err := e.store.AddSessionCounts(ctx, userID, 0, 1, 1); err != nil {
			return nil, err
		}
		if err := e.recordMissed(ctx, subject, userID, guildID); err != nil {
			return nil, err
		}
	}

	e.logger.InfoContext(ctx, "guess resolved",
		logging.String("channel", channelID),
		logging.String("user", userID),
		logging.String("subject", subject),
		logging.Bool("correct", correct),
	)
	return outcome, nil
}

// Skip abandons the channel's open round and reveals the subject. Only the
// session round total moves; scores and the incorrect counter are untouched.
func (e *Engine) Skip(ctx context.Context, channelID, userID, guildID string) (string, error) {
	state, err := e.store.Channel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !state.Presenting() {
		return "", errdefs.Wrap(errdefs.ErrNotFound, "game", "skip", "no round in progress", nil)
	}
	subject := state.CurrentSubject
	closed, err := e.store.FinishRound(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !closed {
		return "", errdefs.Wrap(errdefs.ErrNotFound, "game", "skip", "no round in progress", nil)
	}
	if err := e.store.AddSessionCounts(ctx, userID, 0, 0, 1); err != nil {
		return "", err
	}
	if err := e.recordMissed(ctx, subject, userID, guildID); err != nil {
		return "", err
	}
	e.logger.InfoContext(ctx, "round skipped",
		logging.String("channel", channelID),
		logging.String("subject", subject),
	)
	return subject, nil
}

// Hint masks the open round's subject, keeping word-initial letters.
func (e *Engine) Hint(ctx context.Context, channelID string) (string, error) {
	state, err := e.store.Channel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !state.Presenting() {
		return "", errdefs.Wrap(errdefs.ErrNotFound, "game", "hint", "no round in progress", nil)
	}
	return maskSubject(state.CurrentSubject), nil
}

// Lookup resolves a possibly misspelled name to its canonical catalog entry
// and, best effort, a media file for it. Round state is untouched; a media
// failure leaves the path empty rather than failing the lookup.
func (e *Engine) Lookup(ctx context.Context, name, domainName string) (string, string, error) {
	domain, err := e.catalogs.Domain(domainName)
	if err != nil {
		return "", "", errdefs.Wrap(errdefs.ErrValidation, "game", "lookup", "unknown domain", err)
	}
	closest, ok := match.Closest(name, domain.Subjects, e.tolerance)
	if !ok {
		return "", "", errdefs.Wrap(errdefs.ErrNotFound, "game", "lookup", name, nil)
	}

	path := ""
	if files, err := e.source.Files(ctx, domain, closest); err != nil {
		e.logger.WarnContext(ctx, "lookup media unavailable",
			logging.String("subject", closest),
			logging.Error(err),
		)
	} else if p, _, err := e.selector.Current(domain, files, 0); err == nil {
		path = p
	}
	return closest, path, nil
}

// Leaderboard returns the top limit entries of a board.
func (e *Engine) Leaderboard(ctx context.Context, board string, limit int) ([]store.BoardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return e.store.Top(ctx, board, limit)
}

// Precache warms the media cache for the given subjects, or for the whole
// domain catalog when none are named. Per-subject failures are logged and
// skipped; the count of warmed subjects is returned.
func (e *Engine) Precache(ctx context.Context, domainName string, subjects []string) (int, error) {
	domain, err := e.catalogs.Domain(domainName)
	if err != nil {
		return 0, errdefs.Wrap(errdefs.ErrValidation, "game", "precache", "unknown domain", err)
	}
	if len(subjects) == 0 {
		subjects = domain.Subjects
	}

	warmed := 0
	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := e.source.Files(ctx, domain, subject); err != nil {
			e.logger.WarnContext(ctx, "precache skip",
				logging.String("subject", subject),
				logging.Error(err),
			)
			continue
		}
		warmed++
	}
	return warmed, nil
}

// recordCorrect bumps the global user and channel boards. The guild board is
// seeded from the user's global score on first touch, then moves
// independently.
func (e *Engine) recordCorrect(ctx context.Context, channelID, userID, guildID string) (int64, error) {
	global, err := e.store.IncrementScore(ctx, BoardGlobalUsers, userID, 1)
	if err != nil {
		return 0, err
	}
	if _, err := e.store.IncrementScore(ctx, BoardGlobalChannels, channelID, 1); err != nil {
		return 0, err
	}
	if guildID != "" {
		board := GuildUserBoard(guildID)
		present, err := e.store.HasMember(ctx, board, userID)
		if err != nil {
			return 0, err
		}
		if present {
			if _, err := e.store.IncrementScore(ctx, board, userID, 1); err != nil {
				return 0, err
			}
		} else if err := e.store.EnsureMemberAt(ctx, board, userID, global); err != nil {
			return 0, err
		}
	}
	return global, nil
}

func (e *Engine) recordMissed(ctx context.Context, subject, userID, guildID string) error {
	if _, err := e.store.IncrementScore(ctx, BoardGlobalMissed, subject, 1); err != nil {
		return err
	}
	if _, err := e.store.IncrementScore(ctx, UserMissedBoard(userID), subject, 1); err != nil {
		return err
	}
	if guildID != "" {
		if _, err := e.store.IncrementScore(ctx, GuildMissedBoard(guildID), subject, 1); err != nil {
			return err
		}
	}
	return nil
}

func maskSubject(subject string) string {
	var b strings.Builder
	keepNext := true
	for _, r := range subject {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(r)
			keepNext = true
		case keepNext:
			b.WriteRune(r)
			keepNext = false
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
