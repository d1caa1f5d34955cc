package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/utils"
)

// CreateUserRequest represents the request body for creating a user account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Role        string `json:"role" binding:"required,oneof=admin designer worker manager"`
}

// AssignStagesRequest represents the request body for replacing a worker's
// stage assignment
type AssignStagesRequest struct {
	StageIDs []uint `json:"stage_ids" binding:"required"`
}

// SetActiveRequest represents the request body for toggling the active flag
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListUsers handles GET /api/users (admin only)
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().Preload("Stages").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// CreateUser handles POST /api/users (admin only)
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
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

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HASH_ERROR",
				"message": "Failed to hash password",
			},
		})
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		Active:       true,
	}

	if err := config.GetDB().Create(&user).Error; err != nil {
		// Works with both PostgreSQL and sqlite constraint messages
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USERNAME_EXISTS",
					"message": "A user with this username already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// AssignStages handles PUT /api/users/:id/stages (admin only). The stage
// assignment gates which stages appear in a worker's panel.
func AssignStages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AssignStagesRequest
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

	db := config.GetDB()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	var stages []models.ProductionStage
	if len(req.StageIDs) > 0 {
		if err := db.Find(&stages, req.StageIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load stages",
				},
			})
			return
		}
		if len(stages) != len(req.StageIDs) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STAGE_NOT_FOUND",
					"message": "One or more stages do not exist",
				},
			})
			return
		}
	}

	if err := db.Model(&user).Association("Stages").Replace(stages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to assign stages",
			},
		})
		return
	}

	user.Stages = stages
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// SetUserActive handles PATCH /api/users/:id/active (admin only)
func SetUserActive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SetActiveRequest
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

	db := config.GetDB()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if err := db.Model(&user).Update("active", *req.Active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
