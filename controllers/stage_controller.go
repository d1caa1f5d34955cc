package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/services"
)

// CreateStageRequest represents the request body for creating a stage
type CreateStageRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// ListStages handles GET /api/stages
func ListStages(c *gin.Context) {
	stageService := services.NewStageService(config.GetDB())
	stages, err := stageService.ListStages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list stages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stages,
	})
}

// CreateStage handles POST /api/stages (admin only)
func CreateStage(c *gin.Context) {
	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	stage := models.ProductionStage{
		Name:        req.Name,
		Description: req.Description,
	}

	stageService := services.NewStageService(config.GetDB())
	if err := stageService.CreateStage(&stage); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create stage",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    stage,
	})
}

// DeleteStage handles DELETE /api/stages/:id (admin only). A stage that any
// time log references cannot be removed.
func DeleteStage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	stageService := services.NewStageService(config.GetDB())
	if err := stageService.DeleteStage(id); err != nil {
		switch {
		case errors.Is(err, services.ErrStageNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STAGE_NOT_FOUND",
					"message": "Production stage not found",
				},
			})
		case errors.Is(err, services.ErrStageInUse):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STAGE_IN_USE",
					"message": "Stage is referenced by time logs and cannot be deleted",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to delete stage",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stage deleted",
	})
}
