package mediacache

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/errdefs"
	"fieldguide/internal/fileutil"
	"fieldguide/internal/logging"
)

// Fetcher is the download dependency of the cache.
type Fetcher interface {
	Fetch(ctx context.Context, domain *catalog.Domain, subject, destDir string, limit int) ([]string, error)
}

// Cache resolves subjects to local media files, fetching on miss.
type Cache struct {
	root    string
	limit   int
	fetcher Fetcher
	group   singleflight.Group
	logger  *slog.Logger
}

// New builds a cache rooted at the configured cache directory.
func New(cfg *config.Config, fetcher Fetcher, logger *slog.Logger) *Cache {
	limit := cfg.Fetcher.ResultLimit
	if limit <= 0 {
		limit = 15
	}
	return &Cache{
		root:    cfg.Paths.CacheDir,
		limit:   limit,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "mediacache"),
	}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// EntryDir returns the directory holding cached media for a subject.
func (c *Cache) EntryDir(domain *catalog.Domain, subject string) string {
	return filepath.Join(c.root, domain.MediaType, subject)
}

// Files returns the cached media paths for subject, fetching on miss. The
// result is non-empty on success; an empty entry after a fetch attempt fails
// with ErrNoImages. Concurrent misses for the same subject share a single
// fetch.
func (c *Cache) Files(ctx context.Context, domain *catalog.Domain, subject string) ([]string, error) {
	dir := c.EntryDir(domain, subject)

	files, err := fileutil.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		return files, nil
	}

	key := domain.Name + "/" + subject
	result, err, shared := c.group.Do(key, func() (any, error) {
		// A waiter that lost the race may arrive after the winner already
		// populated the entry.
		files, err := fileutil.ListFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			return files, nil
		}

		c.logger.InfoContext(ctx, "cache miss, fetching",
			logging.String("domain", domain.Name),
			logging.String("subject", subject),
		)
		paths, err := c.fetcher.Fetch(ctx, domain, subject, dir, c.limit)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, errdefs.Wrap(errdefs.ErrNoImages, "mediacache", "fetch", subject, nil)
		}
		return paths, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight fetch", logging.String("subject", subject))
	}
	return result.([]string), nil
}
