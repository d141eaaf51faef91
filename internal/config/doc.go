// Package config loads, validates, and normalizes fieldguide configuration
// from TOML. All path fields are expanded and absolute after Load.
package config
