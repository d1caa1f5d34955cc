package services

import (
	"errors"

	"github.com/mkowalczyk/prodtrack-api/models"
	"gorm.io/gorm"
)

// StageService is the authoritative registry of production stages
type StageService struct {
	db *gorm.DB
}

// NewStageService creates a stage service on top of the given database
func NewStageService(db *gorm.DB) *StageService {
	return &StageService{db: db}
}

// ListStages returns every production stage in pipeline order
func (s *StageService) ListStages() ([]models.ProductionStage, error) {
	var stages []models.ProductionStage
	if err := s.db.Order("id").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// FindStageByID resolves a stage by its identifier
func (s *StageService) FindStageByID(id uint) (*models.ProductionStage, error) {
	var stage models.ProductionStage
	if err := s.db.First(&stage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// CreateStage persists a new stage
func (s *StageService) CreateStage(stage *models.ProductionStage) error {
	return s.db.Create(stage).Error
}

// DeleteStage removes a stage. A stage referenced by any time log is load
// bearing for history and cannot be deleted; that fails with ErrStageInUse
// and removes nothing.
func (s *StageService) DeleteStage(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var stage models.ProductionStage
		if err := tx.First(&stage, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStageNotFound
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.TimeLog{}).Where("stage_id = ?", stage.ID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrStageInUse
		}

		return tx.Delete(&stage).Error
	})
}
