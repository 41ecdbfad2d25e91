package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

func TestCreateCategoryValidation(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	_, err := svc.CreateCategory(manager, "   ")
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.CreateCategory(manager, string(long))
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	// Surrounding whitespace is trimmed before persisting.
	category, err := svc.CreateCategory(manager, "  Networking  ")
	require.NoError(t, err)
	assert.Equal(t, "Networking", category.Name)
}

func TestUpdateCategoryRename(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	category := seedCategory(t, db, "Hardwre")

	updated, err := svc.UpdateCategory(manager, category.ID, "Hardware")
	require.NoError(t, err)
	assert.Equal(t, "Hardware", updated.Name)

	var stored models.Category
	require.NoError(t, db.First(&stored, category.ID).Error)
	assert.Equal(t, "Hardware", stored.Name)

	_, err = svc.UpdateCategory(manager, 9999, "Anything")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteCategoryEmpty(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	category := seedCategory(t, db, "Empty")

	require.NoError(t, svc.DeleteCategory(manager, category.ID))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteCategoryWithItems(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	category := seedCategory(t, db, "Networking")
	seedItem(t, db, "Switch-24", category.ID, "120.00")

	err := svc.DeleteCategory(manager, category.ID)
	var opErr *errs.OperationError
	require.ErrorAs(t, err, &opErr)

	// The category and its item both survive the rejected delete.
	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListCategoriesItemCounts(t *testing.T) {
	svc, db := newTestService(t)
	networking := seedCategory(t, db, "Networking")
	seedCategory(t, db, "Storage")
	seedItem(t, db, "Switch-24", networking.ID, "120.00")
	seedItem(t, db, "Router-X", networking.ID, "480.00")

	categories, err := svc.ListCategories("")
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Name ascending, each with its item count.
	assert.Equal(t, "Networking", categories[0].Name)
	assert.EqualValues(t, 2, categories[0].ItemCount)
	assert.Equal(t, "Storage", categories[1].Name)
	assert.Zero(t, categories[1].ItemCount)

	filtered, err := svc.ListCategories("Stor")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Storage", filtered[0].Name)
}

func TestCategoryMutationsRequireManage(t *testing.T) {
	svc, db := newTestService(t)
	viewer := seedUser(t, db, "viewer", models.RoleView)
	category := seedCategory(t, db, "Networking")

	_, err := svc.CreateCategory(viewer, "Blocked")
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = svc.UpdateCategory(viewer, category.ID, "Blocked")
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteCategory(viewer, category.ID), errs.ErrForbidden)

	_, err = svc.CreateCategory(nil, "Blocked")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
