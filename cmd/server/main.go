// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/vitrine/internal/api"
	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/database"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/recommend"
	"github.com/tomtom215/vitrine/internal/supervisor"
	"github.com/tomtom215/vitrine/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Vitrine")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineCfg := cfg.EngineConfig()
	engine, err := recommend.NewEngine(engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	store := recommend.NewResilientStore(db, "database", logging.WithComponent("recommend"))

	loadCtx, loadCancel := context.WithTimeout(ctx, engineCfg.Reload.Timeout)
	err = engine.Load(loadCtx, store)
	loadCancel()
	if err != nil {
		return err
	}
	status := engine.Status()
	logging.Info().
		Int("users", status.Users).
		Int("products", status.Products).
		Int("interactions", status.Interactions).
		Msg("Recommendation engine loaded")

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		return err
	}
	revocations, err := auth.NewRevocationStore(cfg.Security.RevocationPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		return err
	}
	authMW := auth.NewMiddleware(tokens, revocations, authorizer, api.WriteError)
	limiter := auth.NewLoginLimiter(cfg.Security.LoginRate, cfg.Security.LoginBurst)

	handler := api.NewHandler(api.HandlerDeps{
		Store:      db,
		Engine:     engine,
		Tokens:     tokens,
		AuthMW:     authMW,
		Authorizer: authorizer,
		Limiter:    limiter,
		Config:     cfg,
	})
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	router := api.NewRouter(handler, authMW, chiMW)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if engineCfg.Reload.Interval > 0 {
		tree.AddEngineService(services.NewReloadService(engine, store, services.ReloadServiceConfig{
			Interval: engineCfg.Reload.Interval,
			Timeout:  engineCfg.Reload.Timeout,
		}, logging.WithComponent("reload")))
		logging.Info().Dur("interval", engineCfg.Reload.Interval).Msg("Periodic engine reload enabled")
	}
	tree.AddAPIService(limiter)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var runErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		runErr = err
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return runErr
}
