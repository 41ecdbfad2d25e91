package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EhaabShareef/inventory-manage/internal/audit"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// testDBSeq gives every test its own named in-memory database.
var testDBSeq atomic.Int64

// newTestService runs the real stack against in-memory SQLite. The audit
// recorder writes to the same database so tests can assert on the trail.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	// A named shared-cache DSN keeps one database across the pool, and a
	// single connection keeps the foreign-key pragma in force everywhere.
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.Client{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.AuditLog{},
	))

	log := zap.NewNop()
	svc := New(db, log, audit.NewRecorder(db, log), view.NopRevalidator{})
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedManager(t *testing.T, db *gorm.DB) *models.User {
	return seedUser(t, db, "manager", models.RoleManage)
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedItem(t *testing.T, db *gorm.DB, name string, categoryID uint, selling string) *models.Item {
	t.Helper()
	item := &models.Item{
		ItemName:     name,
		CategoryID:   categoryID,
		ListPrice:    decimal.RequireFromString("100.00"),
		SellingPrice: decimal.RequireFromString(selling),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func auditRows(t *testing.T, db *gorm.DB, action string) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	require.NoError(t, db.Where("action = ?", action).Find(&rows).Error)
	return rows
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
