// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package main is the entry point for the PriceWatch server.
//
// PriceWatch records how users interact with tracked products (views, watch
// list changes, price-alert clicks) and turns that behavior into hybrid
// product recommendations.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, then environment (koanf v2)
//  2. Database: DuckDB schema, optional demo data
//  3. Services: trend analysis, personalization, recommendation engine
//  4. Events: watermill pub/sub, publisher circuit breaker, consumer router
//  5. Supervisor tree: HTTP server, event router, preference refresh
//
// # Build Tags
//
//	go build ./cmd/server              # in-process event bus
//	go build -tags nats ./cmd/server   # adds the NATS JetStream backend
//
// # Signals
//
// SIGINT and SIGTERM cancel the root context; the supervisor stops the HTTP
// server, drains the event router and the database is checkpointed and
// closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/pricewatch/internal/api"
	"github.com/tomtom215/pricewatch/internal/config"
	"github.com/tomtom215/pricewatch/internal/database"
	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/personalization"
	"github.com/tomtom215/pricewatch/internal/recommend"
	"github.com/tomtom215/pricewatch/internal/recommend/algorithms"
	"github.com/tomtom215/pricewatch/internal/supervisor"
	"github.com/tomtom215/pricewatch/internal/supervisor/services"
	"github.com/tomtom215/pricewatch/internal/tracking"
	"github.com/tomtom215/pricewatch/internal/trend"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("PriceWatch stopped with error")
	}
}

//nolint:gocyclo // sequential wiring
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting PriceWatch")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	trendSvc := trend.NewService(cfg.Trend, db, logging.WithComponent("trend"))
	defer trendSvc.Close()
	personalSvc := personalization.NewService(cfg.Personalization, db, logging.WithComponent("personalization"))
	defer personalSvc.Close()

	engine, err := recommend.NewEngine(&cfg.Recommend, db, logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}
	for _, s := range algorithms.All(&cfg.Recommend, db, trendSvc, personalSvc) {
		engine.RegisterScorer(s)
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var (
		publisher tracking.Publisher
		events    api.EventsStatus
	)
	if cfg.Events.Enabled {
		ev, err := initEvents(ctx, &cfg.Events, engine, trendSvc, personalSvc)
		if err != nil {
			return fmt.Errorf("initialize events: %w", err)
		}
		defer ev.Close()

		engine.SetBehaviorPublisher(ev.Publisher)
		publisher = ev.Publisher
		events = ev.Router
		tree.AddMessagingService(services.NewEventRouterService(ev.Router, logging.WithComponent("events")))
	} else {
		logging.Info().Msg("Behavior events disabled; preferences refresh on schedule or on demand only")
	}

	tracker := tracking.NewService(db, publisher, logging.WithComponent("tracking"))

	if cfg.Refresh.Enabled {
		tree.AddDataService(services.NewPreferenceRefreshService(
			db, engine, personalSvc, cfg.Refresh, logging.WithComponent("refresh")))
	}

	handler := api.NewHandler(api.Deps{
		Engine:   engine,
		Tracker:  tracker,
		Profiles: personalSvc,
		Trends:   trendSvc,
		Store:    db,
		Events:   events,
		Version:  version,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Server listening")

	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("PriceWatch stopped")
	return nil
}
