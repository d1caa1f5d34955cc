package services

import (
	"math"
	"sort"

	"github.com/mkowalczyk/prodtrack-api/models"
	"gorm.io/gorm"
)

// ReportService derives grouped summaries from completed time logs. All
// aggregation happens on unrounded minute totals; each published number is
// rounded to 2 decimal places independently at the very end, so minutes and
// hours both come from the same unrounded sum.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a report service on top of the given database
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// OrderTimesFilter narrows the order-times report. Nil fields impose no
// filter; set fields combine with AND.
type OrderTimesFilter struct {
	OrderID          *uint
	SystemType       *string
	HandleType       *string
	WeldingFramesMin *int
	GlazingFramesMin *int
	ComplexityRating *int
}

// OrderTimesRow is one (order, stage) group of the order-times report
type OrderTimesRow struct {
	OrderNumber      string  `json:"order_number"`
	Description      string  `json:"description"`
	SystemType       *string `json:"system_type,omitempty"`
	HandleType       *string `json:"handle_type,omitempty"`
	WeldingFramesQty *int    `json:"welding_frames_qty,omitempty"`
	GlazingFramesQty *int    `json:"glazing_frames_qty,omitempty"`
	ComplexityRating *int    `json:"complexity_rating,omitempty"`
	StageName        string  `json:"stage_name"`
	WorkSessions     int     `json:"work_sessions"`
	TotalMinutes     float64 `json:"total_minutes"`
	TotalHours       float64 `json:"total_hours"`
}

// WorkerProductivityRow is one worker group of the productivity report.
// Workers are grouped by the exact name string logged at scan time.
type WorkerProductivityRow struct {
	WorkerName   string  `json:"worker_name"`
	WorkSessions int     `json:"work_sessions"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

// StageEfficiencyRow is one stage group of the efficiency report
type StageEfficiencyRow struct {
	StageName    string  `json:"stage_name"`
	WorkSessions int     `json:"work_sessions"`
	AvgMinutes   float64 `json:"avg_minutes"`
	AvgHours     float64 `json:"avg_hours"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

// OrderTimes groups completed logs by (order, stage) and sums their
// durations, joined against the order's descriptive attributes.
func (s *ReportService) OrderTimes(filter OrderTimesFilter) ([]OrderTimesRow, error) {
	logs, err := s.completedLogs()
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		orderID uint
		stageID uint
	}
	type group struct {
		order        models.Order
		stage        models.ProductionStage
		sessions     int
		totalMinutes float64
	}

	groups := make(map[groupKey]*group)
	var keys []groupKey
	for i := range logs {
		log := &logs[i]
		if !matchesOrderFilter(&log.Order, filter) {
			continue
		}
		key := groupKey{orderID: log.OrderID, stageID: log.StageID}
		g, ok := groups[key]
		if !ok {
			g = &group{order: log.Order, stage: log.Stage}
			groups[key] = g
			keys = append(keys, key)
		}
		g.sessions++
		g.totalMinutes += log.EndTime.Sub(log.StartTime).Minutes()
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].orderID != keys[j].orderID {
			return keys[i].orderID < keys[j].orderID
		}
		return keys[i].stageID < keys[j].stageID
	})

	rows := make([]OrderTimesRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, OrderTimesRow{
			OrderNumber:      g.order.OrderNumber,
			Description:      g.order.Description,
			SystemType:       g.order.SystemType,
			HandleType:       g.order.HandleType,
			WeldingFramesQty: g.order.WeldingFramesQty,
			GlazingFramesQty: g.order.GlazingFramesQty,
			ComplexityRating: g.order.ComplexityRating,
			StageName:        g.stage.Name,
			WorkSessions:     g.sessions,
			TotalMinutes:     round2(g.totalMinutes),
			TotalHours:       round2(g.totalMinutes / 60),
		})
	}
	return rows, nil
}

// WorkerProductivity groups completed logs by worker name
func (s *ReportService) WorkerProductivity() ([]WorkerProductivityRow, error) {
	logs, err := s.completedLogs()
	if err != nil {
		return nil, err
	}

	type group struct {
		sessions     int
		totalMinutes float64
	}
	groups := make(map[string]*group)
	var names []string
	for i := range logs {
		log := &logs[i]
		g, ok := groups[log.WorkerName]
		if !ok {
			g = &group{}
			groups[log.WorkerName] = g
			names = append(names, log.WorkerName)
		}
		g.sessions++
		g.totalMinutes += log.EndTime.Sub(log.StartTime).Minutes()
	}

	sort.Strings(names)

	rows := make([]WorkerProductivityRow, 0, len(names))
	for _, name := range names {
		g := groups[name]
		rows = append(rows, WorkerProductivityRow{
			WorkerName:   name,
			WorkSessions: g.sessions,
			TotalMinutes: round2(g.totalMinutes),
			TotalHours:   round2(g.totalMinutes / 60),
		})
	}
	return rows, nil
}

// StageEfficiency groups completed logs by stage, reporting totals and the
// average session length
func (s *ReportService) StageEfficiency() ([]StageEfficiencyRow, error) {
	logs, err := s.completedLogs()
	if err != nil {
		return nil, err
	}

	type group struct {
		stage        models.ProductionStage
		sessions     int
		totalMinutes float64
	}
	groups := make(map[uint]*group)
	var ids []uint
	for i := range logs {
		log := &logs[i]
		g, ok := groups[log.StageID]
		if !ok {
			g = &group{stage: log.Stage}
			groups[log.StageID] = g
			ids = append(ids, log.StageID)
		}
		g.sessions++
		g.totalMinutes += log.EndTime.Sub(log.StartTime).Minutes()
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]StageEfficiencyRow, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		avgMinutes := g.totalMinutes / float64(g.sessions)
		rows = append(rows, StageEfficiencyRow{
			StageName:    g.stage.Name,
			WorkSessions: g.sessions,
			AvgMinutes:   round2(avgMinutes),
			AvgHours:     round2(avgMinutes / 60),
			TotalMinutes: round2(g.totalMinutes),
			TotalHours:   round2(g.totalMinutes / 60),
		})
	}
	return rows, nil
}

// completedLogs loads every completed time log with its order and stage.
// In-progress (and the reserved paused) entries never enter a report.
func (s *ReportService) completedLogs() ([]models.TimeLog, error) {
	var logs []models.TimeLog
	if err := s.db.Preload("Order").Preload("Stage").
		Where("status = ?", models.StatusCompleted).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func matchesOrderFilter(order *models.Order, f OrderTimesFilter) bool {
	if f.OrderID != nil && order.ID != *f.OrderID {
		return false
	}
	if f.SystemType != nil && (order.SystemType == nil || *order.SystemType != *f.SystemType) {
		return false
	}
	if f.HandleType != nil && (order.HandleType == nil || *order.HandleType != *f.HandleType) {
		return false
	}
	if f.WeldingFramesMin != nil && (order.WeldingFramesQty == nil || *order.WeldingFramesQty < *f.WeldingFramesMin) {
		return false
	}
	if f.GlazingFramesMin != nil && (order.GlazingFramesQty == nil || *order.GlazingFramesQty < *f.GlazingFramesMin) {
		return false
	}
	if f.ComplexityRating != nil && (order.ComplexityRating == nil || *order.ComplexityRating != *f.ComplexityRating) {
		return false
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
