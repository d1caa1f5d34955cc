package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mkowalczyk/prodtrack-api/models"
	"gorm.io/gorm"
)

// openSessionMu serializes the check-then-insert in OpenSession. sqlite
// gives us no row-level locking, so without this two concurrent scans of the
// same badge could both pass the existence check. The partial unique index
// on time_logs backstops the invariant at the database regardless.
var openSessionMu sync.Mutex

// LedgerService owns the time-log state machine: for every
// (order, stage, worker name) triple at most one in_progress entry exists.
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a ledger service on top of the given database
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// OpenSession starts a new work session for the triple. It fails with
// ErrOrderNotFound / ErrStageNotFound when the references do not resolve and
// with ErrActiveSessionExists when the triple already has an open session.
// Worker name matching is exact and case-sensitive.
func (s *LedgerService) OpenSession(orderID, stageID uint, workerName string) (*models.TimeLog, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	var stage models.ProductionStage
	if err := s.db.First(&stage, stageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	openSessionMu.Lock()
	defer openSessionMu.Unlock()

	log := models.TimeLog{
		OrderID:    order.ID,
		StageID:    stage.ID,
		WorkerName: workerName,
		StartTime:  time.Now().UTC(),
		Status:     models.StatusInProgress,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TimeLog{}).
			Where("order_id = ? AND stage_id = ? AND worker_name = ? AND status = ?",
				order.ID, stage.ID, workerName, models.StatusInProgress).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrActiveSessionExists
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race against another open for the same triple
			return nil, ErrActiveSessionExists
		}
		return nil, err
	}

	log.Order = order
	log.Stage = stage
	return &log, nil
}

// CloseSession stops the open session for the triple, stamping the end time
// and marking it completed. It fails with ErrNoActiveSession when the triple
// has nothing in progress.
func (s *LedgerService) CloseSession(orderID, stageID uint, workerName string) (*models.TimeLog, error) {
	var log models.TimeLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ? AND stage_id = ? AND worker_name = ? AND status = ?",
			orderID, stageID, workerName, models.StatusInProgress).
			First(&log).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}

		now := time.Now().UTC()
		log.EndTime = &now
		log.Status = models.StatusCompleted
		return tx.Save(&log).Error
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// ListActiveSessions returns every in_progress entry for the worker, with
// Order and Stage loaded for display. No ordering is guaranteed.
func (s *LedgerService) ListActiveSessions(workerName string) ([]models.TimeLog, error) {
	var logs []models.TimeLog
	if err := s.db.Preload("Order").Preload("Stage").
		Where("worker_name = ? AND status = ?", workerName, models.StatusInProgress).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// isUniqueViolation reports whether err is a unique constraint failure.
// Works with both PostgreSQL and sqlite error strings.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
