package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldguide/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".local", "share", "fieldguide", "cache")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7519" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Catalog.DefaultDomain != "birds" {
		t.Fatalf("unexpected default domain: %q", cfg.Catalog.DefaultDomain)
	}
	if cfg.Fetcher.ResultLimit != 15 {
		t.Fatalf("unexpected result limit: %d", cfg.Fetcher.ResultLimit)
	}
	if cfg.Fetcher.Workers != 4 {
		t.Fatalf("unexpected worker count: %d", cfg.Fetcher.Workers)
	}
	if cfg.Cache.SweepIntervalHours != 48 {
		t.Fatalf("unexpected sweep interval: %d", cfg.Cache.SweepIntervalHours)
	}
	if cfg.Cache.MaxFileBytes != 8_000_000 {
		t.Fatalf("unexpected max file bytes: %d", cfg.Cache.MaxFileBytes)
	}
	if cfg.Matcher.Tolerance != 3 {
		t.Fatalf("unexpected tolerance: %d", cfg.Matcher.Tolerance)
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		"[paths]",
		`cache_dir = "` + filepath.Join(dir, "cache") + `"`,
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"[fetcher]",
		"workers = 2",
		"result_limit = 5",
		"[matcher]",
		"tolerance = 5",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Fetcher.Workers != 2 {
		t.Fatalf("expected workers override, got %d", cfg.Fetcher.Workers)
	}
	if cfg.Fetcher.ResultLimit != 5 {
		t.Fatalf("expected result limit override, got %d", cfg.Fetcher.ResultLimit)
	}
	if cfg.Matcher.Tolerance != 5 {
		t.Fatalf("expected tolerance override, got %d", cfg.Matcher.Tolerance)
	}
	if cfg.Fetcher.SearchURL == "" {
		t.Fatal("expected default search url to survive partial config")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero workers", func(c *config.Config) { c.Fetcher.Workers = 0 }},
		{"zero limit", func(c *config.Config) { c.Fetcher.ResultLimit = 0 }},
		{"zero sweep", func(c *config.Config) { c.Cache.SweepIntervalHours = 0 }},
		{"zero max bytes", func(c *config.Config) { c.Cache.MaxFileBytes = 0 }},
		{"zero tolerance", func(c *config.Config) { c.Matcher.Tolerance = 0 }},
		{"empty search url", func(c *config.Config) { c.Fetcher.SearchURL = "" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[fetcher]") {
		t.Fatal("expected sample to contain fetcher section")
	}
}
