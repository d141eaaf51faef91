package game

import (
	"os"
	"path/filepath"

	"fieldguide/internal/catalog"
	"fieldguide/internal/errdefs"
)

// Selector picks media files from a cache entry using a rotating cursor.
// The cursor lives in channel state rather than the cache because channels
// cycling through the same subject may be at different offsets.
type Selector struct {
	maxFileBytes int64
}

// NewSelector builds a selector enforcing the given per-file size ceiling.
func NewSelector(maxFileBytes int64) *Selector {
	if maxFileBytes <= 0 {
		maxFileBytes = 8_000_000
	}
	return &Selector{maxFileBytes: maxFileBytes}
}

// Next scans forward circularly from (cursor+1) mod len(files) and returns
// the first file passing the extension and size checks, along with its index
// for cursor persistence. An empty list fails with ErrNoImages; a full
// revolution without a valid file fails with ErrNoValidImages.
func (s *Selector) Next(domain *catalog.Domain, files []string, cursor int) (string, int, error) {
	return s.scan(domain, files, cursor+1)
}

// Current re-selects starting at the persisted cursor itself, so repeating a
// still-open round yields the same file Next chose for it.
func (s *Selector) Current(domain *catalog.Domain, files []string, cursor int) (string, int, error) {
	return s.scan(domain, files, cursor)
}

func (s *Selector) scan(domain *catalog.Domain, files []string, start int) (string, int, error) {
	n := len(files)
	if n == 0 {
		return "", 0, errdefs.Wrap(errdefs.ErrNoImages, "selector", "scan", "empty cache entry", nil)
	}
	start = ((start % n) + n) % n
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if s.valid(domain, files[idx]) {
			return files[idx], idx, nil
		}
	}
	return "", 0, errdefs.Wrap(errdefs.ErrNoValidImages, "selector", "scan", "no file passed validation", nil)
}

func (s *Selector) valid(domain *catalog.Domain, path string) bool {
	if !domain.AllowedExtension(filepath.Ext(path)) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() < s.maxFileBytes
}
