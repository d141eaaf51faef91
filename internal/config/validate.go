package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants that cannot be corrected by
// normalization. It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("config: data_dir is required")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("config: cache_dir is required")
	}
	if strings.TrimSpace(c.Catalog.Dir) == "" {
		return errors.New("config: catalog dir is required")
	}
	if c.Catalog.DefaultDomain == "" {
		return errors.New("config: catalog default_domain is required")
	}
	if strings.TrimSpace(c.Fetcher.SearchURL) == "" {
		return errors.New("config: fetcher search_url is required")
	}
	if c.Fetcher.ResultLimit <= 0 {
		return fmt.Errorf("config: fetcher result_limit must be positive, got %d", c.Fetcher.ResultLimit)
	}
	if c.Fetcher.Workers <= 0 {
		return fmt.Errorf("config: fetcher workers must be positive, got %d", c.Fetcher.Workers)
	}
	if c.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("config: fetcher request_timeout must be positive, got %d", c.Fetcher.RequestTimeout)
	}
	if c.Fetcher.BatchTimeout <= 0 {
		return fmt.Errorf("config: fetcher batch_timeout must be positive, got %d", c.Fetcher.BatchTimeout)
	}
	if c.Cache.SweepIntervalHours <= 0 {
		return fmt.Errorf("config: cache sweep_interval_hours must be positive, got %d", c.Cache.SweepIntervalHours)
	}
	if c.Cache.MaxFileBytes <= 0 {
		return fmt.Errorf("config: cache max_file_bytes must be positive, got %d", c.Cache.MaxFileBytes)
	}
	if c.Matcher.Tolerance < 1 {
		return fmt.Errorf("config: matcher tolerance must be at least 1, got %d", c.Matcher.Tolerance)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging format %q is not supported", c.Logging.Format)
	}
	return nil
}
