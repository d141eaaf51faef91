package api

import (
	"context"

	"fieldguide/internal/game"
	"fieldguide/internal/store"
)

// Rounds abstracts the round engine operations the API layer consumes.
type Rounds interface {
	PresentRound(ctx context.Context, channelID, userID, domainName string) (*game.Round, error)
	SubmitGuess(ctx context.Context, channelID, userID, guildID, text string) (*game.Outcome, error)
	Skip(ctx context.Context, channelID, userID, guildID string) (string, error)
	Hint(ctx context.Context, channelID string) (string, error)
	Lookup(ctx context.Context, name, domainName string) (string, string, error)
	StartSession(ctx context.Context, userID string) error
	SessionView(ctx context.Context, userID string) (*store.Session, error)
	StopSession(ctx context.Context, userID string) (*store.Session, error)
	Leaderboard(ctx context.Context, board string, limit int) ([]store.BoardEntry, error)
	Precache(ctx context.Context, domainName string, subjects []string) (int, error)
}

// GameService exposes game operations returning API DTOs.
type GameService struct {
	engine Rounds
}

// NewGameService constructs a GameService around the provided engine.
func NewGameService(engine Rounds) *GameService {
	if engine == nil {
		return nil
	}
	return &GameService{engine: engine}
}

// Present starts or repeats a round in the channel.
func (s *GameService) Present(ctx context.Context, channelID, userID, domain string) (RoundView, error) {
	round, err := s.engine.PresentRound(ctx, channelID, userID, domain)
	if err != nil {
		return RoundView{}, err
	}
	return FromRound(round), nil
}

// Guess resolves the channel's open round against a free-text guess.
func (s *GameService) Guess(ctx context.Context, channelID, userID, guildID, text string) (GuessOutcome, error) {
	outcome, err := s.engine.SubmitGuess(ctx, channelID, userID, guildID, text)
	if err != nil {
		return GuessOutcome{}, err
	}
	return FromOutcome(outcome), nil
}

// Skip abandons the channel's open round and reveals the subject.
func (s *GameService) Skip(ctx context.Context, channelID, userID, guildID string) (SkipResult, error) {
	subject, err := s.engine.Skip(ctx, channelID, userID, guildID)
	if err != nil {
		return SkipResult{}, err
	}
	return SkipResult{
		Subject: subject,
		Message: "Skipped. It was " + subject + ".",
	}, nil
}

// Hint masks the open round's subject.
func (s *GameService) Hint(ctx context.Context, channelID string) (HintResult, error) {
	hint, err := s.engine.Hint(ctx, channelID)
	if err != nil {
		return HintResult{}, err
	}
	return HintResult{Hint: hint}, nil
}

// Lookup resolves a possibly misspelled name to its catalog entry.
func (s *GameService) Lookup(ctx context.Context, name, domain string) (LookupResult, error) {
	resolved, path, err := s.engine.Lookup(ctx, name, domain)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Name: resolved, FilePath: path}, nil
}

// SessionStart opens a session for the user and returns its initial view.
func (s *GameService) SessionStart(ctx context.Context, userID string) (SessionView, error) {
	if err := s.engine.StartSession(ctx, userID); err != nil {
		return SessionView{}, err
	}
	session, err := s.engine.SessionView(ctx, userID)
	if err != nil {
		return SessionView{}, err
	}
	return FromSession(session), nil
}

// Session returns the user's running session.
func (s *GameService) Session(ctx context.Context, userID string) (SessionView, error) {
	session, err := s.engine.SessionView(ctx, userID)
	if err != nil {
		return SessionView{}, err
	}
	return FromSession(session), nil
}

// SessionStop ends the user's session and returns the final snapshot.
func (s *GameService) SessionStop(ctx context.Context, userID string) (SessionView, error) {
	session, err := s.engine.StopSession(ctx, userID)
	if err != nil {
		return SessionView{}, err
	}
	return FromSession(session), nil
}

// Scores returns the top entries of a board.
func (s *GameService) Scores(ctx context.Context, board string, limit int) (BoardView, error) {
	if board == "" {
		board = game.BoardGlobalUsers
	}
	entries, err := s.engine.Leaderboard(ctx, board, limit)
	if err != nil {
		return BoardView{}, err
	}
	return FromBoard(board, entries), nil
}

// Precache warms the media cache for a domain.
func (s *GameService) Precache(ctx context.Context, domain string, subjects []string) (PrecacheResult, error) {
	warmed, err := s.engine.Precache(ctx, domain, subjects)
	if err != nil {
		return PrecacheResult{}, err
	}
	return PrecacheResult{Domain: domain, Warmed: warmed}, nil
}
