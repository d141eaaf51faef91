package api

import (
	"time"

	"fieldguide/internal/game"
	"fieldguide/internal/store"
)

// FromRound converts an engine round to its API view. The subject is never
// included: the caller is mid-round and must not see the answer.
func FromRound(round *game.Round) RoundView {
	return RoundView{
		Channel:  round.ChannelID,
		Domain:   round.Domain,
		FilePath: round.FilePath,
		Prompt:   "What is this?",
		Repeat:   round.Repeat,
	}
}

// FromOutcome converts a guess outcome, attaching a user-facing message.
func FromOutcome(outcome *game.Outcome) GuessOutcome {
	view := GuessOutcome{
		Correct:     outcome.Correct,
		Subject:     outcome.Subject,
		GlobalScore: outcome.GlobalScore,
	}
	if outcome.Correct {
		view.Message = "Correct! It was " + outcome.Subject + "."
	} else {
		view.Message = "Not quite. It was " + outcome.Subject + "."
	}
	return view
}

// FromSession converts a session record with derived accuracy and duration.
func FromSession(session *store.Session) SessionView {
	view := SessionView{
		User:      session.UserID,
		StartedAt: session.StartedAt.Format(dateTimeFormat),
		Correct:   session.Correct,
		Incorrect: session.Incorrect,
		Total:     session.Total,
		Accuracy:  session.Accuracy(),
		Duration:  session.Duration(time.Now()).Round(time.Second).String(),
	}
	if !session.StoppedAt.IsZero() {
		view.StoppedAt = session.StoppedAt.Format(dateTimeFormat)
	}
	return view
}

// FromBoard converts board entries to a ranked view.
func FromBoard(board string, entries []store.BoardEntry) BoardView {
	views := make([]BoardEntryView, 0, len(entries))
	for i, entry := range entries {
		views = append(views, BoardEntryView{
			Rank:   i + 1,
			Member: entry.Member,
			Score:  entry.Score,
		})
	}
	return BoardView{Board: board, Entries: views}
}
