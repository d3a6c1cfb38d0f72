package transfer

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportDedupesProductsAndCreatesCategories(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Category{ID: "cat-clothing", Name: "Clothing"}).Error)
	require.NoError(t, client.DB().Create(&models.Product{ID: "p-existing", Name: "Existing", UnitType: "unit"}).Error)

	csvData := []byte("name,category,barcode\n" +
		"Existing,Clothing,\n" +
		"New Shirt,New Category,\n")

	log, err := svc.Import(ctx, []File{{Name: "products.csv", Data: csvData}}, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, log.Summary.Inserted, 1)
	assert.Equal(t, 1, log.Summary.Skipped)
	assert.Zero(t, log.Summary.Errors)

	var created models.Category
	require.NoError(t, client.DB().First(&created, "name = ?", "New Category").Error)

	var product models.Product
	require.NoError(t, client.DB().First(&product, "name = ?", "New Shirt").Error)
	assert.Equal(t, created.ID, product.Category)

	// exactly one log row for the run
	var logs int64
	require.NoError(t, client.DB().Model(&models.ImportExportLog{}).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestImportBarcodeCollisionDropsAndLogs(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	barcode := "12345"
	require.NoError(t, client.DB().Create(&models.Product{
		ID: "p1", Name: "Holder", UnitType: "unit", Barcode: &barcode,
	}).Error)

	csvData := []byte("name,category,barcode\nNewcomer,,12345\n")
	log, err := svc.Import(ctx, []File{{Name: "products.csv", Data: csvData}}, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 1, log.Summary.Inserted)

	// the existing product keeps the barcode, the new row comes in without one
	var holder models.Product
	require.NoError(t, client.DB().First(&holder, "id = ?", "p1").Error)
	require.NotNil(t, holder.Barcode)

	var newcomer models.Product
	require.NoError(t, client.DB().First(&newcomer, "name = ?", "Newcomer").Error)
	assert.Nil(t, newcomer.Barcode)
}

func TestImportStructuralErrorThrowsBeforeLog(t *testing.T) {
	svc, client := newTestService(t)

	broken := []byte("name,category\n\"unterminated,x\n")
	_, err := svc.Import(context.Background(), []File{{Name: "products.csv", Data: broken}}, ImportOptions{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var logs int64
	require.NoError(t, client.DB().Model(&models.ImportExportLog{}).Count(&logs).Error)
	assert.Zero(t, logs, "a parse failure must abort before the log is written")
}

func TestImportSkipsUnknownCategoryWhenAutoCreateDisabled(t *testing.T) {
	svc, client := newTestService(t)

	csvData := []byte("name,category\nWidget,Nonexistent\n")
	log, err := svc.Import(context.Background(), []File{{Name: "products.csv", Data: csvData}}, ImportOptions{AllowAutoCreateMissing: false})
	require.NoError(t, err)
	assert.Zero(t, log.Summary.Inserted)
	assert.Equal(t, 1, log.Summary.Skipped)

	var categories int64
	require.NoError(t, client.DB().Model(&models.Category{}).Count(&categories).Error)
	assert.Zero(t, categories)
}

func TestImportExpandsZipArchives(t *testing.T) {
	svc, client := newTestService(t)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	areas, err := zw.Create("areas.csv")
	require.NoError(t, err)
	_, err = areas.Write([]byte("name\nWarehouse\n"))
	require.NoError(t, err)
	products, err := zw.Create("products.csv")
	require.NoError(t, err)
	_, err = products.Write([]byte("name,category\nCrate,Storage\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	log, err := svc.Import(context.Background(), []File{{Name: "bundle.zip", Data: buf.Bytes()}}, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 2, log.Summary.Inserted)
	assert.Contains(t, []string(log.SelectedTypes), "areas")
	assert.Contains(t, []string(log.SelectedTypes), "products")

	var area models.Area
	require.NoError(t, client.DB().First(&area, "name = ?", "Warehouse").Error)
}

func TestImportUnrecognizedFileSkippedWithDetail(t *testing.T) {
	svc, _ := newTestService(t)

	log, err := svc.Import(context.Background(), []File{{Name: "mystery.csv", Data: []byte("foo\nbar\n")}}, ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, log.Summary.Inserted)
	require.NotEmpty(t, log.Details)
	assert.Contains(t, log.Details[0], "mystery.csv")
}

func TestImportPickListsAndItems(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Area{ID: "area-1", Name: "Front"}).Error)
	require.NoError(t, client.DB().Create(&models.Product{ID: "prod-1", Name: "Milk", UnitType: "unit"}).Error)

	lists := []byte("id,area,categories,auto_add_new_products,notes,completed_at\n" +
		"list-1,Front,,true,restock run,\n")
	items := []byte("pick_list,product,quantity,is_carton,status\n" +
		"list-1,Milk,3,false,pending\n" +
		"list-1,Unknown Product,1,false,pending\n")

	log, err := svc.Import(ctx, []File{
		{Name: "picklists.csv", Data: lists},
		{Name: "pickitems.csv", Data: items},
	}, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 2, log.Summary.Inserted)
	assert.Equal(t, 1, log.Summary.Skipped)

	var list models.PickList
	require.NoError(t, client.DB().First(&list, "id = ?", "list-1").Error)
	assert.Equal(t, "area-1", list.AreaID)
	assert.True(t, list.AutoAddNewProducts)
	assert.Equal(t, dbtypes.StringList{}, list.Categories)

	var item models.PickItem
	require.NoError(t, client.DB().First(&item, "pick_list_id = ?", "list-1").Error)
	assert.Equal(t, "prod-1", item.ProductID)
	assert.Equal(t, 3, item.Quantity)
}

func TestImportRerunDoesNotDuplicate(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	csvData := []byte("name,category\nShirt,Clothing\nHat,Clothing\n")
	files := []File{{Name: "products.csv", Data: csvData}}

	first, err := svc.Import(ctx, files, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Summary.Inserted)

	second, err := svc.Import(ctx, files, ImportOptions{AllowAutoCreateMissing: true})
	require.NoError(t, err)
	assert.Zero(t, second.Summary.Inserted)
	assert.Equal(t, 2, second.Summary.Skipped)

	var products int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(2), products)

	seen := map[string]struct{}{}
	var rows []models.Product
	require.NoError(t, client.DB().Find(&rows).Error)
	for _, p := range rows {
		key := names.Normalize(p.Name)
		_, dup := seen[key]
		require.False(t, dup, "duplicate normalized name %q", key)
		seen[key] = struct{}{}
	}
}
