package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/errdefs"
	"fieldguide/internal/fileutil"
	"fieldguide/internal/logging"
)

// extensionByContentType maps sniffed content types to cache file extensions.
// Types absent from the map are discarded.
var extensionByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// Fetcher downloads candidate media for a subject under a bounded worker
// pool. A Fetcher is safe for concurrent use; callers serialize per-subject
// fetches through the media cache.
type Fetcher struct {
	provider     Provider
	client       *http.Client
	workers      int
	batchTimeout time.Duration
	logger       *slog.Logger
}

// New builds a Fetcher from configuration.
func New(cfg *config.Config, provider Provider, logger *slog.Logger) *Fetcher {
	workers := cfg.Fetcher.Workers
	if workers <= 0 {
		workers = 1
	}
	requestTimeout := time.Duration(cfg.Fetcher.RequestTimeout) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	batchTimeout := time.Duration(cfg.Fetcher.BatchTimeout) * time.Second
	if batchTimeout <= 0 {
		batchTimeout = 8 * time.Minute
	}
	return &Fetcher{
		provider:     provider,
		client:       &http.Client{Timeout: requestTimeout},
		workers:      workers,
		batchTimeout: batchTimeout,
		logger:       logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch downloads up to limit validated media files for subject into destDir
// and returns their paths in download-completion order. Individual download
// failures are logged and skipped; a failed search aborts the batch with an
// upstream error.
func (f *Fetcher) Fetch(ctx context.Context, domain *catalog.Domain, subject, destDir string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.batchTimeout)
	defer cancel()

	urls, err := f.provider.Search(ctx, subject, limit)
	if err != nil {
		return nil, err
	}
	f.logger.InfoContext(ctx, "search complete",
		logging.String("subject", subject),
		logging.Int("candidates", len(urls)),
	)

	var (
		mu    sync.Mutex
		paths []string
	)
	group := new(errgroup.Group)
	group.SetLimit(f.workers)
	for _, url := range urls {
		group.Go(func() error {
			path, err := f.download(ctx, domain, url, destDir)
			if err != nil {
				// Per-file failures never abort the batch.
				f.logger.WarnContext(ctx, "candidate discarded",
					logging.String("subject", subject),
					logging.String("url", url),
					logging.Error(err),
				)
				return nil
			}
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	f.logger.InfoContext(ctx, "fetch complete",
		logging.String("subject", subject),
		logging.Int("downloaded", len(paths)),
	)
	return paths, nil
}

// download retrieves one candidate, sniffs its content type from the leading
// bytes, and writes it atomically with the detected extension.
func (f *Fetcher) download(ctx context.Context, domain *catalog.Domain, url, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", errdefs.Wrap(errdefs.ErrUpstream, "fetch", "download",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	header := make([]byte, 512)
	n, err := io.ReadFull(resp.Body, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read body: %w", err)
	}
	header = header[:n]

	contentType := http.DetectContentType(header)
	ext, ok := extensionByContentType[contentType]
	if !ok || !domain.AllowedExtension(ext) {
		return "", errdefs.Wrap(errdefs.ErrValidation, "fetch", "sniff",
			fmt.Sprintf("content type %s", contentType), nil)
	}

	destPath := filepath.Join(destDir, uuid.NewString()+"."+ext)
	if _, err := fileutil.WriteAtomic(destPath, io.MultiReader(bytes.NewReader(header), resp.Body)); err != nil {
		return "", fmt.Errorf("write %s: %w", destPath, err)
	}
	return destPath, nil
}
