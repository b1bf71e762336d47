// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/curator/internal/api"
	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/supervisor"
	"github.com/tomtom215/curator/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Curator stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, the default logger reports this.
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("jwt", cfg.Security.JWTSecret != "").
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Curator with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	engine, err := initEngine(cfg, db, tree, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	events, err := initEvents(cfg, engine, db, tree, logging.WithComponent("events"))
	if err != nil {
		return err
	}
	defer events.Close()

	identity, err := initIdentity(&cfg.Security)
	if err != nil {
		return err
	}

	recommendHandler := api.NewRecommendHandler(engine, rebuildRequester(events), 0, cfg.Recommend.RebuildTimeout)
	healthHandler := api.NewHealthHandler(db, engine, routerStatus(events), version)
	router := api.NewRouter(recommendHandler, healthHandler, identity, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	cancel()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return nil
}

// initIdentity verifies bearer tokens when a JWT secret is configured and
// otherwise trusts the gateway's X-User-ID header.
func initIdentity(cfg *config.SecurityConfig) (*auth.Middleware, error) {
	if cfg.JWTSecret == "" {
		logging.Warn().Msg("JWT_SECRET not set, trusting the X-User-ID header")
		return auth.NewMiddleware(nil, api.Unauthorized), nil
	}
	manager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	return auth.NewMiddleware(manager, api.Unauthorized), nil
}

// rebuildRequester and routerStatus keep typed nil pointers out of the
// handler interfaces when events are disabled.
func rebuildRequester(events *EventComponents) api.RebuildRequester {
	if events == nil {
		return nil
	}
	return events.Publisher
}

func routerStatus(events *EventComponents) api.RouterStatus {
	if events == nil {
		return nil
	}
	return events.Router
}
