package mediacache

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Stats describes current cache usage.
type Stats struct {
	Subjects   int     `json:"subjects"`
	Files      int     `json:"files"`
	TotalBytes int64   `json:"total_bytes"`
	FreeBytes  uint64  `json:"free_bytes"`
	FreeRatio  float64 `json:"free_ratio"`
}

// Stats walks the cache root and reports entry counts, total size, and
// filesystem free space.
func (c *Cache) Stats() (Stats, error) {
	var s Stats

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			// Subject directories sit two levels below the root:
			// root/{media_type}/{subject}.
			if rel, relErr := filepath.Rel(c.root, path); relErr == nil {
				if strings.Count(rel, string(os.PathSeparator)) == 1 {
					s.Subjects++
				}
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		s.Files++
		s.TotalBytes += info.Size()
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	var fsStat unix.Statfs_t
	if err := unix.Statfs(c.root, &fsStat); err == nil {
		total := fsStat.Blocks * uint64(fsStat.Bsize)
		s.FreeBytes = fsStat.Bavail * uint64(fsStat.Bsize)
		if total > 0 {
			s.FreeRatio = float64(s.FreeBytes) / float64(total)
		}
	}
	return s, nil
}
