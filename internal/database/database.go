package database

import (
	"fmt"
	"log"

	"github.com/verseforge/verseforge-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection pool
func Connect(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not configured")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	log.Println("✅ Database connected")
	return db, nil
}

// Migrate runs schema migrations
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Song{}); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Println("✅ Database migrations complete")
	return nil
}
