package seed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/logger"
	"github.com/openshelf/picklist-backend/pkg/metrics"
	"github.com/openshelf/picklist-backend/pkg/migrate"
	"github.com/openshelf/picklist-backend/pkg/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T) (*Loader, *db.Client) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    dsn,
	}, nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(context.Background(), sqlDB, config.DriverSQLite); err != nil {
		t.Fatalf("apply DDL: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "seed-test"})
	loader, err := NewLoader(client, logg, metrics.NewOperationMetrics(nil))
	if err != nil {
		t.Fatalf("build loader: %v", err)
	}
	return loader, client
}

func normalizedNameSet(t *testing.T, client *db.Client, model any) map[string]struct{} {
	t.Helper()
	type row struct {
		Name string
	}
	var rows []row
	require.NoError(t, client.DB().Model(model).Select("name").Find(&rows).Error)
	out := map[string]struct{}{}
	for _, r := range rows {
		key := names.Normalize(r.Name)
		_, dup := out[key]
		require.False(t, dup, "duplicate normalized name %q", key)
		out[key] = struct{}{}
	}
	return out
}

func TestSeedPopulatesEmptyStore(t *testing.T) {
	loader, client := newTestLoader(t)

	require.NoError(t, loader.Run(context.Background()))

	areas := normalizedNameSet(t, client, &models.Area{})
	assert.Len(t, areas, len(seedAreas))
	categories := normalizedNameSet(t, client, &models.Category{})
	assert.Len(t, categories, len(seedCategories))
	products := normalizedNameSet(t, client, &models.Product{})
	assert.Len(t, products, len(seedProducts))

	// every seeded product references an existing category id
	var rows []models.Product
	require.NoError(t, client.DB().Find(&rows).Error)
	for _, p := range rows {
		var category models.Category
		require.NoError(t, client.DB().First(&category, "id = ?", p.Category).Error,
			"product %q has dangling category %q", p.Name, p.Category)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	loader, client := newTestLoader(t)
	ctx := context.Background()

	require.NoError(t, loader.Run(ctx))
	first := normalizedNameSet(t, client, &models.Product{})

	require.NoError(t, loader.Run(ctx))
	second := normalizedNameSet(t, client, &models.Product{})
	assert.Equal(t, first, second)

	var categories int64
	require.NoError(t, client.DB().Model(&models.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(len(seedCategories)), categories)
}

func TestSeedSkipsNearDuplicateExistingRows(t *testing.T) {
	loader, client := newTestLoader(t)

	// pre-existing rows differing only in case/whitespace must win
	require.NoError(t, client.DB().Create(&models.Category{ID: "c1", Name: " dairy "}).Error)
	require.NoError(t, client.DB().Create(&models.Product{ID: "p1", Name: "MILK", UnitType: "unit"}).Error)

	require.NoError(t, loader.Run(context.Background()))

	var dairyCount int64
	require.NoError(t, client.DB().Model(&models.Category{}).
		Where("LOWER(TRIM(name)) = ?", "dairy").
		Count(&dairyCount).Error)
	assert.Equal(t, int64(1), dairyCount)

	var milk []models.Product
	require.NoError(t, client.DB().Where("LOWER(name) = ?", "milk").Find(&milk).Error)
	require.Len(t, milk, 1)
	assert.Equal(t, "p1", milk[0].ID)
}
