package store

import "time"

// ChannelState is the per-channel round record.
type ChannelState struct {
	ChannelID       string
	CurrentSubject  string
	Answered        bool
	PreviousSubject string
	Cursor          int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Presenting reports whether a round is in progress.
func (s *ChannelState) Presenting() bool {
	return s != nil && s.CurrentSubject != "" && !s.Answered
}

// Session is a timed per-user run of rounds with aggregate accuracy stats.
type Session struct {
	UserID    string
	StartedAt time.Time
	StoppedAt time.Time
	Correct   int64
	Incorrect int64
	Total     int64
}

// Duration returns the elapsed session time, using now for running sessions.
func (s Session) Duration(now time.Time) time.Duration {
	end := s.StoppedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(s.StartedAt)
}

// Accuracy returns the fraction of answered rounds that were correct, in
// percent. Sessions with no answers report zero.
func (s Session) Accuracy() float64 {
	answered := s.Correct + s.Incorrect
	if answered == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(answered)
}

// BoardEntry is one member of a score board.
type BoardEntry struct {
	Member string
	Score  int64
}
