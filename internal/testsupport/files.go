package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMediaFile creates a media file of the given size under dir and returns
// its full path. A size <= 0 writes a single byte.
func WriteMediaFile(t testing.TB, dir, name string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
