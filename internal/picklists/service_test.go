package picklists

import (
	"context"
	"testing"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePickListResolvesAreaAndCategories(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	seedArea(t, client, "area-1", "Front Shop")
	seedCategory(t, client, "cat-1", "Dairy")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{
		AreaID:     "front shop",
		Categories: []string{"DAIRY", "cat-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "area-1", list.AreaID)
	assert.Equal(t, []string{"cat-1"}, list.Categories, "name and id entries collapse to one reference")
	assert.Nil(t, list.CompletedAt)
}

func TestCreatePickListUnknownAreaFails(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreatePickList(context.Background(), CreatePickListInput{AreaID: "nowhere"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreatePickListUnknownCategoryFails(t *testing.T) {
	svc, client := newTestService(t)
	seedArea(t, client, "area-1", "Front Shop")

	_, err := svc.CreatePickList(context.Background(), CreatePickListInput{
		AreaID:     "area-1",
		Categories: []string{"no such category"},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// the failed create must not leave a list behind
	var count int64
	require.NoError(t, client.DB().Model(&models.PickList{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCompletePickListOnce(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)

	completed, err := svc.CompletePickList(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	_, err = svc.CompletePickList(ctx, list.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDeletePickListCascadesItems(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePickList(ctx, list.ID))

	var items int64
	require.NoError(t, client.DB().Model(&models.PickItem{}).Count(&items).Error)
	assert.Zero(t, items)
	var lists int64
	require.NoError(t, client.DB().Model(&models.PickList{}).Count(&lists).Error)
	assert.Zero(t, lists)
}

func TestAddItemMergesSameProductAndCarton(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)

	first, err := svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)
	merged, err := svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)

	// carton lines stay separate from unit lines
	carton, err := svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 1, IsCarton: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, carton.ID)

	var count int64
	require.NoError(t, client.DB().Model(&models.PickItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAddItemToCompletedListFails(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	_, err = svc.CompletePickList(ctx, list.ID)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAdjustQuantityValidatesMinimum(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AdjustQuantity(ctx, item.ID, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	updated, err := svc.AdjustQuantity(ctx, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
}

func TestSetItemStatus(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)

	picked, err := svc.SetItemStatus(ctx, item.ID, "picked")
	require.NoError(t, err)
	assert.Equal(t, "picked", picked.Status.String())

	// unchecking back to pending is allowed while the list is open
	pending, err := svc.SetItemStatus(ctx, item.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status.String())

	_, err = svc.SetItemStatus(ctx, item.ID, "bogus")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetPickListIncludesItems(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")
	seedProduct(t, client, "prod-1", "Milk")
	seedProduct(t, client, "prod-2", "Bread")

	list, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, list.ID, AddItemInput{ProductID: "prod-2", Quantity: 4})
	require.NoError(t, err)

	loaded, err := svc.GetPickList(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
}

func TestListPickListsOpenOnly(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	seedArea(t, client, "area-1", "Front Shop")

	open, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	done, err := svc.CreatePickList(ctx, CreatePickListInput{AreaID: "area-1"})
	require.NoError(t, err)
	_, err = svc.CompletePickList(ctx, done.ID)
	require.NoError(t, err)

	openLists, err := svc.ListPickLists(ctx, true)
	require.NoError(t, err)
	require.Len(t, openLists, 1)
	assert.Equal(t, open.ID, openLists[0].ID)

	all, err := svc.ListPickLists(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
