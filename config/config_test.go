package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid development config",
			config:  Config{DatabaseURL: "production.db", GoEnv: "development"},
			wantErr: false,
		},
		{
			name:    "missing database url",
			config:  Config{GoEnv: "development"},
			wantErr: true,
		},
		{
			name:    "production without jwt secret",
			config:  Config{DatabaseURL: "postgres://localhost/prodtrack", GoEnv: "production"},
			wantErr: true,
		},
		{
			name:    "production with jwt secret",
			config:  Config{DatabaseURL: "postgres://localhost/prodtrack", GoEnv: "production", JWTSecret: "s3cret"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAppliesDevSecretFallback(t *testing.T) {
	cfg := Config{DatabaseURL: "production.db", GoEnv: "development"}
	assert.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "development"}).IsProduction())
}

func TestSetDBAndGetDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	SetDB(db)
	assert.Same(t, db, GetDB())
}
