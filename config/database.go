package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase establishes a connection to the database.
// PostgreSQL URLs (postgres:// or postgresql://) use the postgres driver;
// anything else is treated as a sqlite path, which is how small single-site
// deployments run.
func ConnectDatabase() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to a local sqlite file for development
		databaseURL = "production.db"
		log.Println("DATABASE_URL not set, using default:", databaseURL)
	}

	var err error
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance. Tests use this to inject an
// in-memory sqlite database.
func SetDB(db *gorm.DB) {
	DB = db
}
