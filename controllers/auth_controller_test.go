package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/utils"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedLoginUser(t *testing.T, db *gorm.DB, username, password string, active bool) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	assert.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  "Test User",
		Role:         models.RoleWorker,
		Active:       true,
	}
	db.Create(&user)
	if !active {
		// A plain false would be dropped on insert in favor of the column default
		db.Model(&user).Update("active", false)
		user.Active = false
	}
	return user
}

func setupLoginRouter() *gin.Engine {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router := setupTestRouter()
	router.POST("/auth/login", Login(cfg))
	return router
}

func TestLogin(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)
	seedLoginUser(t, db, "anna", "tajnehaslo1", true)

	router := setupLoginRouter()

	code, response := performJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": "anna",
		"password": "tajnehaslo1",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, response["success"])

	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "anna", user["username"])
	assert.Equal(t, "worker", user["role"])
	assert.NotContains(t, user, "password_hash")
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)
	seedLoginUser(t, db, "anna", "tajnehaslo1", true)

	router := setupLoginRouter()

	code, response := performJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": "anna",
		"password": "zlehaslo",
	})

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", response["error"].(map[string]interface{})["code"])
}

func TestLoginUnknownUsername(t *testing.T) {
	config.SetDB(setupUserTestDB(t))

	router := setupLoginRouter()

	code, response := performJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": "nobody",
		"password": "cokolwiek",
	})

	// Indistinguishable from a wrong password
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", response["error"].(map[string]interface{})["code"])
}

func TestLoginInactiveUser(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)
	seedLoginUser(t, db, "anna", "tajnehaslo1", false)

	router := setupLoginRouter()

	code, response := performJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": "anna",
		"password": "tajnehaslo1",
	})

	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "USER_INACTIVE", response["error"].(map[string]interface{})["code"])
}

func TestLoginMissingFields(t *testing.T) {
	config.SetDB(setupUserTestDB(t))

	router := setupLoginRouter()

	code, response := performJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": "anna",
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}
