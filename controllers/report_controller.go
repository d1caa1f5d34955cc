package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/metrics"
	"github.com/mkowalczyk/prodtrack-api/services"
)

// OrderTimesReport handles GET /api/reports/order-times. All query filters
// are optional and combine with AND.
func OrderTimesReport(c *gin.Context) {
	filter := services.OrderTimesFilter{}

	if v := c.Query("order_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondInvalidFilter(c, "order_id")
			return
		}
		orderID := uint(id)
		filter.OrderID = &orderID
	}
	if v := c.Query("system_type"); v != "" {
		filter.SystemType = &v
	}
	if v := c.Query("handle_type"); v != "" {
		filter.HandleType = &v
	}
	if v := c.Query("welding_frames_min"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil {
			respondInvalidFilter(c, "welding_frames_min")
			return
		}
		filter.WeldingFramesMin = &min
	}
	if v := c.Query("glazing_frames_min"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil {
			respondInvalidFilter(c, "glazing_frames_min")
			return
		}
		filter.GlazingFramesMin = &min
	}
	if v := c.Query("complexity"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			respondInvalidFilter(c, "complexity")
			return
		}
		filter.ComplexityRating = &rating
	}

	reportService := services.NewReportService(config.GetDB())
	rows, err := reportService.OrderTimes(filter)
	if err != nil {
		respondReportError(c)
		return
	}

	metrics.ReportRequestCount.WithLabelValues("order_times").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// WorkerProductivityReport handles GET /api/reports/worker-productivity
func WorkerProductivityReport(c *gin.Context) {
	reportService := services.NewReportService(config.GetDB())
	rows, err := reportService.WorkerProductivity()
	if err != nil {
		respondReportError(c)
		return
	}

	metrics.ReportRequestCount.WithLabelValues("worker_productivity").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// StageEfficiencyReport handles GET /api/reports/stage-efficiency
func StageEfficiencyReport(c *gin.Context) {
	reportService := services.NewReportService(config.GetDB())
	rows, err := reportService.StageEfficiency()
	if err != nil {
		respondReportError(c)
		return
	}

	metrics.ReportRequestCount.WithLabelValues("stage_efficiency").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

func respondInvalidFilter(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid filter value for " + field,
		},
	})
}

func respondReportError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to compute report",
		},
	})
}
