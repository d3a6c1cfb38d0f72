package schema

import (
	"context"
	"testing"

	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/pkg/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPersistsMarkerAndIsIdempotent(t *testing.T) {
	client := newTestStore(t)
	engine := newTestEngine(t, client)

	require.NoError(t, engine.Run(context.Background()))

	var meta models.SchemaMeta
	require.NoError(t, client.DB().First(&meta, "key = ?", models.MetaKeyDataVersion).Error)
	require.Equal(t, "6", meta.Value)

	// second run sees nothing pending
	require.NoError(t, engine.Run(context.Background()))
}

func TestCategoryBackfillFromProducts(t *testing.T) {
	client := newTestStore(t)

	insert := `INSERT INTO products (id, name, category, unit_type, archived, created_at, updated_at)
VALUES (?, ?, ?, 'unit', 0, 1000, 1000)`
	require.NoError(t, client.DB().Exec(insert, "p1", "Shirt", "Clothing").Error)
	require.NoError(t, client.DB().Exec(insert, "p2", "Hat", " clothing ").Error)
	require.NoError(t, client.DB().Exec(insert, "p3", "Apple", "Produce").Error)
	require.NoError(t, client.DB().Exec(insert, "p4", "Mystery", "").Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var categories []models.Category
	require.NoError(t, client.DB().Order("name").Find(&categories).Error)
	require.Len(t, categories, 2, "one category per distinct normalized name")

	// normalization rewrote product references to the new ids
	var products []models.Product
	require.NoError(t, client.DB().Order("id").Find(&products).Error)
	byName := map[string]string{}
	for _, c := range categories {
		byName[names.Normalize(c.Name)] = c.ID
	}
	assert.Equal(t, byName["clothing"], products[0].Category)
	assert.Equal(t, byName["clothing"], products[1].Category)
	assert.Equal(t, byName["produce"], products[2].Category)
	assert.Empty(t, products[3].Category)
}

func TestBarcodeDedupeKeepsLexicographicallyFirstID(t *testing.T) {
	client := newTestStore(t)

	insert := `INSERT INTO products (id, name, category, unit_type, barcode, archived, created_at, updated_at)
VALUES (?, ?, '', 'unit', ?, 0, 1000, 1000)`
	require.NoError(t, client.DB().Exec(insert, "p-b", "Second", "12345").Error)
	require.NoError(t, client.DB().Exec(insert, "p-a", "First", "12345").Error)
	require.NoError(t, client.DB().Exec(insert, "p-c", "Third", "99999").Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var keeper models.Product
	require.NoError(t, client.DB().First(&keeper, "id = ?", "p-a").Error)
	require.NotNil(t, keeper.Barcode)
	assert.Equal(t, "12345", *keeper.Barcode)

	var loser models.Product
	require.NoError(t, client.DB().First(&loser, "id = ?", "p-b").Error)
	assert.Nil(t, loser.Barcode)
	assert.Greater(t, loser.UpdatedAt, int64(1000), "cleared product gets a fresh updated_at")

	var untouched models.Product
	require.NoError(t, client.DB().First(&untouched, "id = ?", "p-c").Error)
	require.NotNil(t, untouched.Barcode)
}

func TestMixedPickItemSplitsIntoTwoRows(t *testing.T) {
	client := newTestStore(t)

	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_lists (id, area_id, created_at, updated_at, categories, auto_add_new_products)
		 VALUES ('list-1', 'area-1', 1000, 1000, '[]', 0)`).Error)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_items (id, pick_list_id, product_id, status, quantity_units, quantity_bulk, created_at, updated_at)
		 VALUES ('item-1', 'list-1', 'prod-1', 'pending', 2, 3, 1000, 1000)`).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var items []models.PickItem
	require.NoError(t, client.DB().
		Where("pick_list_id = ? AND product_id = ?", "list-1", "prod-1").
		Order("is_carton").
		Find(&items).Error)
	require.Len(t, items, 2)

	units := items[0]
	assert.Equal(t, "item-1", units.ID, "original row stays the units item")
	assert.Equal(t, 2, units.Quantity)
	assert.False(t, units.IsCarton)
	assert.Nil(t, units.LegacyQuantityUnits)
	assert.Nil(t, units.LegacyQuantityBulk)

	carton := items[1]
	assert.NotEqual(t, "item-1", carton.ID)
	assert.Equal(t, 3, carton.Quantity)
	assert.True(t, carton.IsCarton)
	assert.Equal(t, int64(1000), carton.CreatedAt, "created_at copied from the source row")
	assert.Equal(t, units.Status, carton.Status)
}

func TestSingleLegacyFieldRewrittenInPlace(t *testing.T) {
	client := newTestStore(t)

	insert := `INSERT INTO pick_items (id, pick_list_id, product_id, status, quantity_units, quantity_bulk, created_at, updated_at)
VALUES (?, 'list-1', ?, 'pending', ?, ?, 1000, 1000)`
	require.NoError(t, client.DB().Exec(insert, "units-item", "prod-1", 5, nil).Error)
	require.NoError(t, client.DB().Exec(insert, "bulk-item", "prod-2", nil, 7).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var unitsItem models.PickItem
	require.NoError(t, client.DB().First(&unitsItem, "id = ?", "units-item").Error)
	assert.Equal(t, 5, unitsItem.Quantity)
	assert.False(t, unitsItem.IsCarton)

	var bulkItem models.PickItem
	require.NoError(t, client.DB().First(&bulkItem, "id = ?", "bulk-item").Error)
	assert.Equal(t, 7, bulkItem.Quantity)
	assert.True(t, bulkItem.IsCarton)

	var count int64
	require.NoError(t, client.DB().Model(&models.PickItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "no extra rows for single-field legacy items")
}

func TestUnquantifiedItemCompletedWithMinimumQuantity(t *testing.T) {
	client := newTestStore(t)

	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_items (id, pick_list_id, product_id, status, quantity_units, created_at, updated_at)
		 VALUES ('zero-item', 'list-1', 'prod-1', 'pending', 0, 1000, 1000)`).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var item models.PickItem
	require.NoError(t, client.DB().First(&item, "id = ?", "zero-item").Error)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.IsCarton)
	assert.Nil(t, item.LegacyQuantityUnits)
}

func TestPickListDefaultsBackfill(t *testing.T) {
	client := newTestStore(t)

	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_lists (id, area_id, created_at, updated_at) VALUES ('legacy-list', 'area-1', 1000, 1000)`).Error)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_lists (id, area_id, created_at, updated_at, categories, auto_add_new_products)
		 VALUES ('modern-list', 'area-1', 1000, 4242, '["cat-x"]', 1)`).Error)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ('cat-x', 'Existing', 1000, 1000)`).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var legacy models.PickList
	require.NoError(t, client.DB().First(&legacy, "id = ?", "legacy-list").Error)
	require.NotNil(t, legacy.Categories)
	assert.Empty(t, legacy.Categories)
	assert.False(t, legacy.AutoAddNewProducts)

	var modern models.PickList
	require.NoError(t, client.DB().First(&modern, "id = ?", "modern-list").Error)
	assert.Equal(t, dbtypes.StringList{"cat-x"}, modern.Categories)
	assert.True(t, modern.AutoAddNewProducts)
	assert.Equal(t, int64(4242), modern.UpdatedAt, "already-complete list sees no write")
}

func TestPickListNameEntriesNormalizedToIDs(t *testing.T) {
	client := newTestStore(t)

	require.NoError(t, client.DB().Exec(
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ('cat-1', 'Clothing', 1000, 1000)`).Error)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_lists (id, area_id, created_at, updated_at, categories, auto_add_new_products)
		 VALUES ('list-1', 'area-1', 1000, 1000, '["Clothing","Brand New"]', 0)`).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	var list models.PickList
	require.NoError(t, client.DB().First(&list, "id = ?", "list-1").Error)
	require.Len(t, list.Categories, 2)
	assert.Equal(t, "cat-1", list.Categories[0])

	var created models.Category
	require.NoError(t, client.DB().First(&created, "id = ?", list.Categories[1]).Error)
	assert.Equal(t, "Brand New", created.Name)

	var count int64
	require.NoError(t, client.DB().Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "no duplicate category for the existing name")
}

func TestMigrationDeterminismNoWritesOnSecondRun(t *testing.T) {
	client := newTestStore(t)

	require.NoError(t, client.DB().Exec(
		`INSERT INTO products (id, name, category, unit_type, barcode, archived, created_at, updated_at)
		 VALUES ('p1', 'Shirt', 'Clothing', 'unit', '111', 0, 1000, 1000)`).Error)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO pick_items (id, pick_list_id, product_id, status, quantity_units, quantity_bulk, created_at, updated_at)
		 VALUES ('i1', 'l1', 'p1', 'pending', 2, 3, 1000, 1000)`).Error)

	engine := newTestEngine(t, client)
	require.NoError(t, engine.Run(context.Background()))

	snapshot := dumpStore(t, client)
	require.NoError(t, engine.Run(context.Background()))
	require.NoError(t, engine.Normalize(context.Background()))
	assert.Equal(t, snapshot, dumpStore(t, client))
}

type storeDump struct {
	Categories []models.Category
	Products   []models.Product
	PickLists  []models.PickList
	PickItems  []models.PickItem
	Meta       []models.SchemaMeta
}

func dumpStore(t *testing.T, client *db.Client) storeDump {
	t.Helper()
	var dump storeDump
	require.NoError(t, client.DB().Order("id").Find(&dump.Categories).Error)
	require.NoError(t, client.DB().Order("id").Find(&dump.Products).Error)
	require.NoError(t, client.DB().Order("id").Find(&dump.PickLists).Error)
	require.NoError(t, client.DB().Order("id").Find(&dump.PickItems).Error)
	require.NoError(t, client.DB().Order("key").Find(&dump.Meta).Error)
	return dump
}
