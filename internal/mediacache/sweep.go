package mediacache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"fieldguide/internal/config"
	"fieldguide/internal/logging"
)

// Sweeper deletes the entire cache root on a fixed interval so every subject
// falls back to the fetch path and stale media ages out. The sweep is guarded
// by a file lock so concurrent sweeps from other processes are skipped rather
// than doubled.
type Sweeper struct {
	root     string
	interval time.Duration
	lock     *flock.Flock
	logger   *slog.Logger
}

// NewSweeper builds a sweeper for the configured cache directory. Returns nil
// when sweeping is disabled.
func NewSweeper(cfg *config.Config, logger *slog.Logger) *Sweeper {
	if !cfg.Cache.SweepEnabled {
		return nil
	}
	interval := time.Duration(cfg.Cache.SweepIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 48 * time.Hour
	}
	root := cfg.Paths.CacheDir
	return &Sweeper{
		root:     root,
		interval: interval,
		lock:     flock.New(filepath.Join(filepath.Dir(root), filepath.Base(root)+".sweep.lock")),
		logger:   logging.NewComponentLogger(logger, "sweeper"),
	}
}

// Run sweeps on the configured interval until ctx is cancelled. The first
// sweep happens one interval after start, not immediately, so a restart never
// wipes a freshly warmed cache.
func (s *Sweeper) Run(ctx context.Context) {
	if s == nil {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepNow(ctx); err != nil {
				s.logger.ErrorContext(ctx, "sweep failed", logging.Error(err))
			}
		}
	}
}

// SweepNow deletes the cache root immediately. A sweep already running in
// another process is skipped silently.
func (s *Sweeper) SweepNow(ctx context.Context) error {
	if s == nil {
		return nil
	}
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !locked {
		s.logger.InfoContext(ctx, "sweep already in progress elsewhere, skipping")
		return nil
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("remove cache root: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("recreate cache root: %w", err)
	}
	s.logger.InfoContext(ctx, "cache swept", logging.String("root", s.root))
	return nil
}
