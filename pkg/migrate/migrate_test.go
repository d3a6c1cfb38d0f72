package migrate

import (
	"context"
	"testing"

	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestUpCreatesCoreTables(t *testing.T) {
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:migrate_test?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))

	for _, table := range []string{
		"areas", "categories", "products", "pick_lists", "pick_items",
		"import_export_logs", "schema_meta",
	} {
		var count int64
		err := client.DB().
			Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", table).
			Scan(&count).Error
		require.NoError(t, err)
		require.Equal(t, int64(1), count, "missing table %s", table)
	}

	// applying twice must be a no-op
	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))
}
