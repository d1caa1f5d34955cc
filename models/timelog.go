package models

import (
	"math"
	"time"
)

// Time log status values. StatusPaused is reserved in the domain but no
// operation currently produces it.
const (
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
)

// TimeLog represents one open-or-closed work interval for an
// (order, stage, worker) triple. The partial unique index keeps at most one
// in_progress row per triple, which is what makes concurrent double-starts
// lose cleanly at the database.
type TimeLog struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index;uniqueIndex:idx_one_active_session,where:status = 'in_progress'" json:"order_id"`
	Order      Order           `gorm:"foreignKey:OrderID" json:"-"`
	StageID    uint            `gorm:"not null;index;uniqueIndex:idx_one_active_session,where:status = 'in_progress'" json:"stage_id"`
	Stage      ProductionStage `gorm:"foreignKey:StageID" json:"-"`
	WorkerName string          `gorm:"size:100;not null;uniqueIndex:idx_one_active_session,where:status = 'in_progress'" json:"worker_name"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    string     `gorm:"size:20;not null;default:'in_progress';uniqueIndex:idx_one_active_session,where:status = 'in_progress'" json:"status"`
}

// TableName specifies the table name for the TimeLog model
func (TimeLog) TableName() string {
	return "time_logs"
}

// DurationMinutes returns end minus start in minutes rounded to 2 decimal
// places, or nil while the log is still open. A negative value means the
// clock moved backwards between start and stop; it is reported as-is.
func (t *TimeLog) DurationMinutes() *float64 {
	if t.EndTime == nil {
		return nil
	}
	minutes := math.Round(t.EndTime.Sub(t.StartTime).Minutes()*100) / 100
	return &minutes
}
