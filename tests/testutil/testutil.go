package testutil

import (
	"os"
	"testing"

	"github.com/mkowalczyk/prodtrack-api/middleware"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
}

// SetupTestDB opens an in-memory sqlite database with all application models
// migrated. The connection pool is capped at one connection because each
// pooled sqlite :memory: connection would otherwise see its own empty database.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.ProductionStage{},
		&models.Order{},
		&models.TimeLog{},
		&models.User{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// CreateTestUser inserts a user with the given role and a bcrypt hash of the
// given password.
func CreateTestUser(db *gorm.DB, username, password, role string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         role,
		Active:       true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// MintToken issues a bearer token for the user, signed with the given secret.
func MintToken(user *models.User, secret string) (string, error) {
	return middleware.GenerateToken(user, secret)
}
