package services

import (
	"fmt"
	"log"

	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/utils"
	"gorm.io/gorm"
)

// defaultStages is the production pipeline a fresh installation starts with
var defaultStages = []models.ProductionStage{
	{Name: "Projektowanie", Description: "Etap projektowania i przygotowania"},
	{Name: "Cięcie", Description: "Etap cięcia materiałów"},
	{Name: "Montaż", Description: "Etap montażu komponentów"},
	{Name: "Kontrola jakości", Description: "Etap kontroli jakości"},
	{Name: "Pakowanie", Description: "Etap pakowania produktu"},
}

// SeedDefaults bootstraps a fresh database: the default stage list when no
// stage exists and a default admin account when no admin exists. It is
// idempotent and is invoked exactly once, from main, at startup.
func SeedDefaults(db *gorm.DB, cfg *config.Config) error {
	var stageCount int64
	if err := db.Model(&models.ProductionStage{}).Count(&stageCount).Error; err != nil {
		return fmt.Errorf("failed to count stages: %w", err)
	}
	if stageCount == 0 {
		if err := db.Create(&defaultStages).Error; err != nil {
			return fmt.Errorf("failed to seed default stages: %w", err)
		}
		log.Printf("Seeded %d default production stages", len(defaultStages))
	}

	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if adminCount == 0 {
		password := cfg.AdminPassword
		if password == "" {
			if cfg.IsProduction() {
				return fmt.Errorf("ADMIN_PASSWORD is required to seed the admin account in production")
			}
			password = "admin123"
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := models.User{
			Username:     "admin",
			PasswordHash: hash,
			DisplayName:  "Administrator",
			Role:         models.RoleAdmin,
			Active:       true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		log.Println("Seeded default admin account")
	}

	return nil
}
