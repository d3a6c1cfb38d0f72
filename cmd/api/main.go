package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/openshelf/picklist-backend/api/routes"
	"github.com/openshelf/picklist-backend/internal/catalog"
	"github.com/openshelf/picklist-backend/internal/picklists"
	"github.com/openshelf/picklist-backend/internal/schema"
	"github.com/openshelf/picklist-backend/internal/seed"
	"github.com/openshelf/picklist-backend/internal/transfer"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/metrics"
	"github.com/openshelf/picklist-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open store", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing store", err)
		}
	}()

	if err := migrate.RunStartup(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to apply schema migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ops := metrics.NewOperationMetrics(registry)

	// Data migrations must finish before any request can touch the store.
	engine := schema.NewEngine(dbClient, logg, ops)
	if err := engine.Run(context.Background()); err != nil {
		logg.Error(context.Background(), "data migration failed", err)
		os.Exit(1)
	}
	if err := engine.Normalize(context.Background()); err != nil {
		logg.Error(context.Background(), "data normalization failed", err)
		os.Exit(1)
	}

	if cfg.Seed.Enabled {
		loader, err := seed.NewLoader(dbClient, logg, ops)
		if err != nil {
			logg.Error(context.Background(), "failed to create seed loader", err)
			os.Exit(1)
		}
		if err := loader.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "seeding failed", err)
			os.Exit(1)
		}
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	pickListService, err := picklists.NewService(picklists.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create pick list service", err)
		os.Exit(1)
	}
	transferService, err := transfer.NewService(dbClient, logg, ops)
	if err != nil {
		logg.Error(context.Background(), "failed to create transfer service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, catalogService, pickListService, transferService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
