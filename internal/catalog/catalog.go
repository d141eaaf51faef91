package catalog

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MediaTypeImages is the media type every current domain serves.
const MediaTypeImages = "images"

var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
}

// Domain pairs a named subject catalog with its media validation rules.
// Domains are immutable after loading.
type Domain struct {
	Name      string
	MediaType string
	Subjects  []string
}

// AllowedExtension reports whether ext (without dot, any case) is valid
// media for this domain.
func (d *Domain) AllowedExtension(ext string) bool {
	_, ok := imageExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// Contains reports whether name is a catalog subject (exact match).
func (d *Domain) Contains(name string) bool {
	for _, s := range d.Subjects {
		if s == name {
			return true
		}
	}
	return false
}

// Pick returns a uniformly random subject, re-rolling while the pick equals
// previous. With a single-subject catalog the previous subject is returned
// unchanged rather than looping forever.
func (d *Domain) Pick(previous string) string {
	if len(d.Subjects) == 0 {
		return ""
	}
	if len(d.Subjects) == 1 {
		return d.Subjects[0]
	}
	for {
		subject := d.Subjects[rand.IntN(len(d.Subjects))]
		if subject != previous {
			return subject
		}
	}
}

// Set holds all loaded domains keyed by name.
type Set struct {
	domains     map[string]*Domain
	defaultName string
}

// LoadDir reads every .txt file under dir as a newline-delimited subject
// catalog; the file stem becomes the domain name. Blank lines and lines
// starting with '#' are skipped.
func LoadDir(dir, defaultDomain string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %q: %w", dir, err)
	}

	set := &Set{domains: make(map[string]*Domain), defaultName: defaultDomain}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		subjects, err := loadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if len(subjects) == 0 {
			return nil, fmt.Errorf("catalog %q is empty", name)
		}
		set.domains[name] = &Domain{
			Name:      name,
			MediaType: MediaTypeImages,
			Subjects:  subjects,
		}
	}

	if len(set.domains) == 0 {
		return nil, fmt.Errorf("no catalogs found under %q", dir)
	}
	if _, ok := set.domains[defaultDomain]; !ok {
		return nil, fmt.Errorf("default domain %q has no catalog file", defaultDomain)
	}
	return set, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer file.Close()

	var subjects []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subjects = append(subjects, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog %q: %w", path, err)
	}
	return subjects, nil
}

// Domain returns the named domain, or the default domain for an empty name.
func (s *Set) Domain(name string) (*Domain, error) {
	if name == "" {
		name = s.defaultName
	}
	domain, ok := s.domains[name]
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", name)
	}
	return domain, nil
}

// Default returns the default domain.
func (s *Set) Default() *Domain {
	return s.domains[s.defaultName]
}

// Names returns all domain names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.domains))
	for name := range s.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
