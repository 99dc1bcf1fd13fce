package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

// Open connects to the SQLite database at dbPath and migrates the schema.
// The returned handle is the process's single store connection; the caller
// owns its lifecycle and passes it to the components that need it.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	if err := db.AutoMigrate(&models.PriceHistory{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
