// Package testsupport provides shared helpers for package tests: seeded
// configurations, catalog fixtures, and store setup.
package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldguide/internal/config"
)

// DefaultSubjects seeds the "birds" catalog used by generated test configs.
var DefaultSubjects = []string{"Heron", "Kestrel", "Avocet"}

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
	domains map[string][]string
}

// NewConfig produces a config seeded with unique temp directories per test
// and a default birds catalog. It applies any provided options, then writes
// the catalog files.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Catalog.Dir = filepath.Join(base, "catalogs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
		domains: map[string][]string{"birds": DefaultSubjects},
	}

	for _, opt := range opts {
		opt(builder)
	}

	for name, subjects := range builder.domains {
		WriteCatalog(t, builder.cfg.Catalog.Dir, name, subjects...)
	}

	return builder.cfg
}

// WithDomain replaces or adds a catalog for the named domain.
func WithDomain(name string, subjects ...string) ConfigOption {
	return func(b *configBuilder) {
		b.domains[name] = subjects
	}
}

// WithSweepDisabled turns off the periodic cache sweep.
func WithSweepDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.SweepEnabled = false
	}
}

// WithAPIToken requires a bearer token on the daemon HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithMaxFileBytes overrides the selector's file size ceiling.
func WithMaxFileBytes(limit int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.MaxFileBytes = limit
	}
}

// WriteCatalog writes a newline-delimited subject list for a domain.
func WriteCatalog(t testing.TB, dir, name string, subjects ...string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir catalog dir: %v", err)
	}
	content := strings.Join(subjects, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog %s: %v", name, err)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
