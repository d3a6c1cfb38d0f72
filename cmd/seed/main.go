package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/openshelf/picklist-backend/internal/seed"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/migrate"
)

// Seeds the starter dataset into the configured store. Safe to rerun.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to open store", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.RunStartup(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to apply schema migrations", err)
		os.Exit(1)
	}

	loader, err := seed.NewLoader(dbClient, logg, nil)
	if err != nil {
		logg.Error(ctx, "failed to create seed loader", err)
		os.Exit(1)
	}
	if err := loader.Run(ctx); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
}
