package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/metrics"
	"github.com/mkowalczyk/prodtrack-api/services"
	"github.com/mkowalczyk/prodtrack-api/utils"
)

// ScanRequest is the fully-typed scan event produced by the worker panel
type ScanRequest struct {
	QRData     string `json:"qr_data" binding:"required"`
	WorkerName string `json:"worker_name" binding:"required,max=100"`
	StageID    uint   `json:"stage_id" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=start stop"`
}

// ProcessScan handles POST /api/scan - starts or stops time tracking for an
// (order, stage, worker) triple
func ProcessScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ScanCount.WithLabelValues("invalid", "VALIDATION_ERROR").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	orderNumber, err := utils.ParseQRPayload(req.QRData)
	if err != nil {
		metrics.ScanCount.WithLabelValues(req.Action, "INVALID_QR_FORMAT").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_QR_FORMAT",
				"message": "Invalid QR code format",
			},
		})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db)
	order, err := orderService.FindOrderByNumber(orderNumber)
	if err != nil {
		metrics.ScanCount.WithLabelValues(req.Action, "ORDER_NOT_FOUND").Inc()
		respondOrderLookupError(c, err)
		return
	}

	stageService := services.NewStageService(db)
	stage, err := stageService.FindStageByID(req.StageID)
	if err != nil {
		metrics.ScanCount.WithLabelValues(req.Action, "STAGE_NOT_FOUND").Inc()
		if errors.Is(err, services.ErrStageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STAGE_NOT_FOUND",
					"message": "Production stage not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to access stage",
			},
		})
		return
	}

	ledger := services.NewLedgerService(db)

	if req.Action == "start" {
		log, err := ledger.OpenSession(order.ID, stage.ID, req.WorkerName)
		if err != nil {
			if errors.Is(err, services.ErrActiveSessionExists) {
				metrics.ScanCount.WithLabelValues("start", "ACTIVE_SESSION_EXISTS").Inc()
				c.JSON(http.StatusConflict, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "ACTIVE_SESSION_EXISTS",
						"message": "You already have an active session for this order and stage",
					},
				})
				return
			}
			metrics.ScanCount.WithLabelValues("start", "DATABASE_ERROR").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to start session",
				},
			})
			return
		}

		metrics.ScanCount.WithLabelValues("start", "ok").Inc()
		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"message":      "Work started",
			"log_id":       log.ID,
			"order_number": order.OrderNumber,
			"stage":        stage.Name,
			"start_time":   log.StartTime,
		})
		return
	}

	// Action is "stop" - binding already rejected everything else
	log, err := ledger.CloseSession(order.ID, stage.ID, req.WorkerName)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			metrics.ScanCount.WithLabelValues("stop", "NO_ACTIVE_SESSION").Inc()
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_ACTIVE_SESSION",
					"message": "No active session found for this order and stage",
				},
			})
			return
		}
		metrics.ScanCount.WithLabelValues("stop", "DATABASE_ERROR").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to stop session",
			},
		})
		return
	}

	metrics.ScanCount.WithLabelValues("stop", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Work stopped",
		"log_id":           log.ID,
		"order_number":     order.OrderNumber,
		"stage":            stage.Name,
		"duration_minutes": log.DurationMinutes(),
	})
}

// GetActiveSessions handles GET /api/worker/active-sessions?worker_name=
func GetActiveSessions(c *gin.Context) {
	workerName := c.Query("worker_name")
	if workerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Worker name is required",
			},
		})
		return
	}

	ledger := services.NewLedgerService(config.GetDB())
	logs, err := ledger.ListActiveSessions(workerName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list active sessions",
			},
		})
		return
	}

	sessions := make([]gin.H, 0, len(logs))
	for i := range logs {
		sessions = append(sessions, gin.H{
			"log_id":       logs[i].ID,
			"order_number": logs[i].Order.OrderNumber,
			"stage_name":   logs[i].Stage.Name,
			"start_time":   logs[i].StartTime,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sessions,
	})
}
