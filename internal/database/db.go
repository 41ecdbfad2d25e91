package database

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/models"
)

// Connect opens the process-wide GORM connection and syncs the schema.
// The DSN comes from .env so the app stays portable.
func Connect(log *zap.Logger) *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not found in .env file. Please configure your database.")
	}

	var db *gorm.DB
	var err error

	// Wait for the DB to be ready
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			// Portable duplicate-key / FK-violation errors
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warn("failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("failed to connect to database after 5 attempts", zap.Error(err))
	}

	log.Info("connected to MySQL")

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.Client{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("failed to sync database schema", zap.Error(err))
	}

	log.Info("database schema synced")
	return db
}
