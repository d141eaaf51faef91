package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldguide/internal/fileutil"
)

func TestWriteAtomicCreatesFileAndParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "images", "heron", "a.bin")
	n, err := fileutil.WriteAtomic(path, strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("unexpected byte count: %d", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content: %q", string(data))
	}
}

func TestWriteAtomicLeavesNoTempOnSuccess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := fileutil.WriteAtomic(filepath.Join(dir, "f"), strings.NewReader("x")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the final file, found %d entries", len(entries))
	}
}

func TestListFilesSkipsDirectoriesAndMissingRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "one"), []byte("1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	paths, err := fileutil.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "one" {
		t.Fatalf("unexpected listing: %v", paths)
	}

	missing, err := fileutil.ListFiles(filepath.Join(dir, "absent"))
	if err != nil {
		t.Fatalf("ListFiles missing dir: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected empty listing for missing dir, got %v", missing)
	}
}
