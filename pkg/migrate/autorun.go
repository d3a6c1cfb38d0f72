package migrate

import (
	"context"
	"fmt"

	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/logger"
)

// RunStartup applies the embedded DDL migrations at process start. The table
// layout must exist before the data normalization engine reads anything, so
// unlike a server fleet this runs unconditionally.
func RunStartup(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
	logg.Info(ctx, "applying schema migrations")

	if err := Up(ctx, sqlDB, cfg.DB.Driver); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "schema migrations up to date")
	return nil
}
