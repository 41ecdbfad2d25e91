package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

func TestDashboardStats(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	seedUser(t, db, "viewer", models.RoleView)
	category := seedCategory(t, db, "Networking")

	current := seedItem(t, db, "Switch-24", category.ID, "120.00")
	validTill := time.Now().AddDate(0, 0, 30)
	require.NoError(t, db.Model(current).Update("price_valid_till", &validTill).Error)

	// Lapsed three days ago: counted as expired and listed as recent.
	recent := seedItem(t, db, "Router-X", category.ID, "480.00")
	lapsed := time.Now().AddDate(0, 0, -3)
	require.NoError(t, db.Model(recent).Update("price_valid_till", &lapsed).Error)

	// Lapsed a month ago: expired, but too old for the recent list.
	stale := seedItem(t, db, "AP-Lite", category.ID, "65.00")
	old := time.Now().AddDate(0, -1, 0)
	require.NoError(t, db.Model(stale).Update("price_valid_till", &old).Error)

	// No valid-till at all: never expired.
	seedItem(t, db, "Patch-Cord", category.ID, "2.50")

	stats, err := svc.DashboardStats(manager)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 4, stats.TotalItems)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.EqualValues(t, 2, stats.ExpiredItems)
	assert.Equal(t, manager.ID, stats.CurrentUser.ID)

	require.Len(t, stats.RecentlyExpired, 1)
	assert.Equal(t, "Router-X", stats.RecentlyExpired[0].ItemName)
	assert.Equal(t, "Networking", stats.RecentlyExpired[0].Category.Name)
}

func TestDashboardStatsRequiresActor(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.DashboardStats(nil)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
