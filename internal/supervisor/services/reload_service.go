// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrine/internal/recommend"
)

// Loader refreshes engine state from a store. Satisfied by
// *recommend.Engine.
type Loader interface {
	Load(ctx context.Context, store recommend.EntityStore) error
}

// ReloadServiceConfig controls periodic reloads.
type ReloadServiceConfig struct {
	// Interval between reloads. Must be positive; the caller skips adding
	// the service when reloads are disabled.
	Interval time.Duration

	// Timeout bounds one reload.
	// Default: 30s
	Timeout time.Duration
}

// ReloadService rebuilds the engine from the database on a fixed
// interval. A failed reload keeps the previous state and is retried on
// the next tick, so it never ends Serve.
type ReloadService struct {
	loader Loader
	store  recommend.EntityStore
	config ReloadServiceConfig
	logger zerolog.Logger
	name   string
}

// NewReloadService creates a reload service. store is normally a
// *recommend.ResilientStore so repeated failures open the breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(loader Loader, store recommend.EntityStore, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ReloadService{
		loader: loader,
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "engine-reload").Logger(),
		name:   "engine-reload",
	}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	interval := s.config.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	s.logger.Info().Dur("interval", interval).Msg("engine reload service starting")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("engine reload service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.reload(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("engine reload failed, keeping previous state")
			}
		}
	}
}

func (s *ReloadService) reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.loader.Load(loadCtx, s.store); err != nil {
		return err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("engine reloaded")
	return nil
}

// String names the service in supervisor events.
func (s *ReloadService) String() string {
	return s.name
}
