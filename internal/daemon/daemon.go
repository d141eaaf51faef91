package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"fieldguide/internal/api"
	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/game"
	"fieldguide/internal/logging"
	"fieldguide/internal/mediacache"
	"fieldguide/internal/store"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	catalogs *catalog.Set
	engine   *game.Engine
	cache    *mediacache.Cache
	sweeper  *mediacache.Sweeper
	server   *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, catalogs *catalog.Set, engine *game.Engine, cache *mediacache.Cache, sweeper *mediacache.Sweeper, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || catalogs == nil || engine == nil || cache == nil {
		return nil, errors.New("daemon requires config, store, catalogs, engine, and cache")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "fieldguided.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		catalogs: catalogs,
		engine:   engine,
		cache:    cache,
		sweeper:  sweeper,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.server = server
	return d, nil
}

// Start acquires the daemon lock, launches the cache sweeper, and begins
// serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fieldguide daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.sweeper != nil {
		go d.sweeper.Run(d.ctx)
	}
	if d.server != nil {
		if err := d.server.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("fieldguide daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background services and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.server != nil {
		d.server.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("fieldguide daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the address the API server is listening on, or empty when the
// API is disabled or the daemon is stopped.
func (d *Daemon) Addr() string {
	if d.server == nil {
		return ""
	}
	return d.server.addr()
}

// Status returns current daemon runtime information.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	status := api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
		Domains:      d.catalogs.Names(),
	}
	stats, err := d.cache.Stats()
	if err != nil {
		d.logger.Warn("cache stats unavailable", logging.Error(err))
		return status
	}
	status.Cache = api.CacheView{
		Root:       d.cache.Root(),
		Subjects:   stats.Subjects,
		Files:      stats.Files,
		TotalBytes: stats.TotalBytes,
		FreeBytes:  stats.FreeBytes,
		FreeRatio:  stats.FreeRatio,
	}
	return status
}
