package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/middleware"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/utils"
	"gorm.io/gorm"
)

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login - verifies credentials and issues a
// bearer token carrying the resolved role
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Username and password are required",
				},
			})
			return
		}

		var user models.User
		err := config.GetDB().Where("username = ?", req.Username).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to look up account",
				},
			})
			return
		}

		// Same response for unknown username and wrong password
		if errors.Is(err, gorm.ErrRecordNotFound) || !utils.CheckPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Invalid username or password",
				},
			})
			return
		}

		if !user.Active {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_INACTIVE",
					"message": "Account is deactivated",
				},
			})
			return
		}

		token, err := middleware.GenerateToken(&user, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TOKEN_ERROR",
					"message": "Failed to issue token",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"token": token,
				"user":  user,
			},
		})
	}
}
