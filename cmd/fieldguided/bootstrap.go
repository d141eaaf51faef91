package main

import (
	"fmt"
	"log/slog"
	"time"

	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/daemon"
	"fieldguide/internal/fetch"
	"fieldguide/internal/game"
	"fieldguide/internal/mediacache"
	"fieldguide/internal/store"
)

// buildDaemon wires the full service stack from configuration.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	catalogs, err := catalog.LoadDir(cfg.Catalog.Dir, cfg.Catalog.DefaultDomain)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	provider := fetch.NewSpecimenProvider(cfg.Fetcher.SearchURL, time.Duration(cfg.Fetcher.RequestTimeout)*time.Second)
	fetcher := fetch.New(cfg, provider, logger)
	cache := mediacache.New(cfg, fetcher, logger)
	sweeper := mediacache.NewSweeper(cfg, logger)
	engine := game.NewEngine(cfg, catalogs, cache, st, logger)

	d, err := daemon.New(cfg, st, catalogs, engine, cache, sweeper, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return d, nil
}
