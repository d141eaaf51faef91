package store_test

import (
	"context"
	"testing"

	"fieldguide/internal/config"
	"fieldguide/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = base + "/data"
	cfg.Paths.CacheDir = base + "/cache"
	cfg.Paths.LogDir = base + "/logs"
	s, err := store.Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEnsureChannelIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	if err := s.EnsureChannel(ctx, "ch1"); err != nil {
		t.Fatalf("EnsureChannel: %v", err)
	}
	if err := s.BeginRound(ctx, "ch1", "Heron", "", 3); err != nil {
		t.Fatalf("BeginRound: %v", err)
	}
	if err := s.EnsureChannel(ctx, "ch1"); err != nil {
		t.Fatalf("EnsureChannel (again): %v", err)
	}

	state, err := s.Channel(ctx, "ch1")
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if state.CurrentSubject != "Heron" || state.Cursor != 3 {
		t.Fatalf("ensure overwrote round state: %+v", state)
	}
	if !state.Presenting() {
		t.Fatal("expected presenting state after BeginRound")
	}
}

func TestChannelAbsentReturnsNil(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	state, err := s.Channel(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
}

func TestFinishRoundRotatesPreviousSubject(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	if err := s.EnsureChannel(ctx, "ch1"); err != nil {
		t.Fatalf("EnsureChannel: %v", err)
	}
	if err := s.BeginRound(ctx, "ch1", "Heron", "", 0); err != nil {
		t.Fatalf("BeginRound: %v", err)
	}
	closed, err := s.FinishRound(ctx, "ch1")
	if err != nil {
		t.Fatalf("FinishRound: %v", err)
	}
	if !closed {
		t.Fatal("expected FinishRound to close the open round")
	}

	state, err := s.Channel(ctx, "ch1")
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if state.CurrentSubject != "" || !state.Answered {
		t.Fatalf("expected idle state, got %+v", state)
	}
	if state.PreviousSubject != "Heron" {
		t.Fatalf("expected previous subject Heron, got %q", state.PreviousSubject)
	}
}

func TestFinishRoundOnlyClosesOpenRound(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	if err := s.EnsureChannel(ctx, "ch1"); err != nil {
		t.Fatalf("EnsureChannel: %v", err)
	}
	if _, err := s.FinishRound(ctx, "ch1"); err != nil {
		t.Fatalf("FinishRound on idle channel: %v", err)
	}

	if err := s.BeginRound(ctx, "ch1", "Heron", "", 0); err != nil {
		t.Fatalf("BeginRound: %v", err)
	}
	closed, err := s.FinishRound(ctx, "ch1")
	if err != nil {
		t.Fatalf("FinishRound: %v", err)
	}
	if !closed {
		t.Fatal("expected first close to win")
	}

	// A second resolution of the same round loses the compare-and-swap and
	// leaves the state untouched.
	closed, err = s.FinishRound(ctx, "ch1")
	if err != nil {
		t.Fatalf("FinishRound (again): %v", err)
	}
	if closed {
		t.Fatal("expected second close to be a no-op")
	}
	state, err := s.Channel(ctx, "ch1")
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if state.PreviousSubject != "Heron" || !state.Answered {
		t.Fatalf("expected state preserved after losing close, got %+v", state)
	}
}

func TestBeginRoundRequiresChannel(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	if err := s.BeginRound(context.Background(), "missing", "Heron", "", 0); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	created, err := s.StartSession(ctx, "user1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !created {
		t.Fatal("expected first start to create a session")
	}

	created, err = s.StartSession(ctx, "user1")
	if err != nil {
		t.Fatalf("StartSession (second): %v", err)
	}
	if created {
		t.Fatal("expected second start to be a no-op")
	}

	if err := s.AddSessionCounts(ctx, "user1", 1, 0, 1); err != nil {
		t.Fatalf("AddSessionCounts: %v", err)
	}
	if err := s.AddSessionCounts(ctx, "user1", 0, 1, 1); err != nil {
		t.Fatalf("AddSessionCounts: %v", err)
	}
	if err := s.AddSessionCounts(ctx, "user1", 0, 0, 1); err != nil {
		t.Fatalf("AddSessionCounts (skip): %v", err)
	}

	session, err := s.StopSession(ctx, "user1")
	if err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	if session == nil {
		t.Fatal("expected session snapshot")
	}
	if session.Correct != 1 || session.Incorrect != 1 || session.Total != 3 {
		t.Fatalf("unexpected counts: %+v", session)
	}
	if session.StoppedAt.Before(session.StartedAt) {
		t.Fatalf("stop stamp precedes start: %+v", session)
	}
	if session.Accuracy() != 50 {
		t.Fatalf("expected 50%% accuracy, got %v", session.Accuracy())
	}

	again, err := s.StopSession(ctx, "user1")
	if err != nil {
		t.Fatalf("StopSession (again): %v", err)
	}
	if again != nil {
		t.Fatalf("expected nil after session removed, got %+v", again)
	}
}

func TestAddSessionCountsWithoutSessionIsIgnored(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	if err := s.AddSessionCounts(ctx, "nobody", 1, 0, 1); err != nil {
		t.Fatalf("AddSessionCounts: %v", err)
	}
	session, err := s.SessionByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("SessionByUser: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session, got %+v", session)
	}
}

func TestIncrementScoreUpsertsAndAccumulates(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	score, err := s.IncrementScore(ctx, "users:global", "user1", 1)
	if err != nil {
		t.Fatalf("IncrementScore: %v", err)
	}
	if score != 1 {
		t.Fatalf("expected score 1, got %d", score)
	}

	score, err = s.IncrementScore(ctx, "users:global", "user1", 2)
	if err != nil {
		t.Fatalf("IncrementScore: %v", err)
	}
	if score != 3 {
		t.Fatalf("expected score 3, got %d", score)
	}
}

func TestEnsureMemberAtKeepsExistingScore(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	if _, err := s.IncrementScore(ctx, "users:guild:g1", "user1", 5); err != nil {
		t.Fatalf("IncrementScore: %v", err)
	}
	if err := s.EnsureMemberAt(ctx, "users:guild:g1", "user1", 99); err != nil {
		t.Fatalf("EnsureMemberAt: %v", err)
	}

	score, err := s.Score(ctx, "users:guild:g1", "user1")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 5 {
		t.Fatalf("expected preserved score 5, got %d", score)
	}
}

func TestTopOrdersByScoreDescending(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	for member, score := range map[string]int64{"a": 2, "b": 5, "c": 1} {
		if _, err := s.IncrementScore(ctx, "users:global", member, score); err != nil {
			t.Fatalf("IncrementScore(%s): %v", member, err)
		}
	}

	entries, err := s.Top(ctx, "users:global", 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Member != "b" || entries[0].Score != 5 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[1].Member != "a" || entries[1].Score != 2 {
		t.Fatalf("unexpected runner-up: %+v", entries[1])
	}
}

func TestScoreAbsentMemberIsZero(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	score, err := s.Score(context.Background(), "users:global", "ghost")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected zero, got %d", score)
	}
}

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	if err := s.CheckHealth(context.Background()); err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
}
