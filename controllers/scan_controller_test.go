package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupScanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.ProductionStage{}, &models.Order{}, &models.TimeLog{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedScanFixtures(t *testing.T, db *gorm.DB) (models.Order, models.ProductionStage) {
	order := models.Order{OrderNumber: "ZAM-2024-001", Description: "Okno dwuskrzydłowe"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	stage := models.ProductionStage{Name: "Cięcie"}
	if err := db.Create(&stage).Error; err != nil {
		t.Fatalf("Failed to create stage: %v", err)
	}
	return order, stage
}

func postScan(router http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/scan", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProcessScan_StartAndStop(t *testing.T) {
	db := setupScanTestDB(t)
	config.SetDB(db)
	order, stage := seedScanFixtures(t, db)

	router := setupTestRouter()
	router.POST("/scan", ProcessScan)

	// Start
	w := postScan(router, map[string]interface{}{
		"qr_data":     "ORDER:" + order.OrderNumber,
		"worker_name": "Anna Nowak",
		"stage_id":    stage.ID,
		"action":      "start",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var startResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &startResp))
	assert.True(t, startResp["success"].(bool))
	assert.Equal(t, "Work started", startResp["message"])
	assert.Equal(t, order.OrderNumber, startResp["order_number"])
	assert.Equal(t, stage.Name, startResp["stage"])
	assert.NotNil(t, startResp["start_time"])

	// Stop
	w = postScan(router, map[string]interface{}{
		"qr_data":     "ORDER:" + order.OrderNumber,
		"worker_name": "Anna Nowak",
		"stage_id":    stage.ID,
		"action":      "stop",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var stopResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stopResp))
	assert.True(t, stopResp["success"].(bool))
	assert.Equal(t, "Work stopped", stopResp["message"])
	assert.NotNil(t, stopResp["duration_minutes"])
	assert.GreaterOrEqual(t, stopResp["duration_minutes"].(float64), 0.0)

	// The log is completed in the database
	var log models.TimeLog
	assert.NoError(t, db.First(&log).Error)
	assert.Equal(t, models.StatusCompleted, log.Status)
	assert.NotNil(t, log.EndTime)
}

func TestProcessScan_Failures(t *testing.T) {
	db := setupScanTestDB(t)
	config.SetDB(db)
	order, stage := seedScanFixtures(t, db)

	router := setupTestRouter()
	router.POST("/scan", ProcessScan)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "invalid QR payload",
			body: map[string]interface{}{
				"qr_data": "ZAM-2024-001", "worker_name": "Anna Nowak",
				"stage_id": stage.ID, "action": "start",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_QR_FORMAT",
		},
		{
			name: "unknown order",
			body: map[string]interface{}{
				"qr_data": "ORDER:ZAM-MISSING", "worker_name": "Anna Nowak",
				"stage_id": stage.ID, "action": "start",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "ORDER_NOT_FOUND",
		},
		{
			name: "unknown stage",
			body: map[string]interface{}{
				"qr_data": "ORDER:" + order.OrderNumber, "worker_name": "Anna Nowak",
				"stage_id": 99999, "action": "start",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "STAGE_NOT_FOUND",
		},
		{
			name: "missing worker name",
			body: map[string]interface{}{
				"qr_data": "ORDER:" + order.OrderNumber,
				"stage_id": stage.ID, "action": "start",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "unsupported action",
			body: map[string]interface{}{
				"qr_data": "ORDER:" + order.OrderNumber, "worker_name": "Anna Nowak",
				"stage_id": stage.ID, "action": "pause",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "stop without active session",
			body: map[string]interface{}{
				"qr_data": "ORDER:" + order.OrderNumber, "worker_name": "Anna Nowak",
				"stage_id": stage.ID, "action": "stop",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NO_ACTIVE_SESSION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postScan(router, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.False(t, response["success"].(bool))
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, tt.expectedError, errorData["code"])
		})
	}
}

func TestProcessScan_DoubleStartConflicts(t *testing.T) {
	db := setupScanTestDB(t)
	config.SetDB(db)
	order, stage := seedScanFixtures(t, db)

	router := setupTestRouter()
	router.POST("/scan", ProcessScan)

	body := map[string]interface{}{
		"qr_data":     "ORDER:" + order.OrderNumber,
		"worker_name": "Anna Nowak",
		"stage_id":    stage.ID,
		"action":      "start",
	}

	w := postScan(router, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postScan(router, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ACTIVE_SESSION_EXISTS", errorData["code"])

	var count int64
	db.Model(&models.TimeLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetActiveSessions(t *testing.T) {
	db := setupScanTestDB(t)
	config.SetDB(db)
	order, stage := seedScanFixtures(t, db)

	router := setupTestRouter()
	router.POST("/scan", ProcessScan)
	router.GET("/worker/active-sessions", GetActiveSessions)

	w := postScan(router, map[string]interface{}{
		"qr_data":     "ORDER:" + order.OrderNumber,
		"worker_name": "Anna Nowak",
		"stage_id":    stage.ID,
		"action":      "start",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/worker/active-sessions?worker_name=Anna+Nowak", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)

	session := data[0].(map[string]interface{})
	assert.Equal(t, order.OrderNumber, session["order_number"])
	assert.Equal(t, stage.Name, session["stage_name"])

	// Another worker sees nothing
	req, _ = http.NewRequest(http.MethodGet, "/worker/active-sessions?worker_name=Jan+Kowalski", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["data"])
}

func TestGetActiveSessions_RequiresWorkerName(t *testing.T) {
	db := setupScanTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/worker/active-sessions", GetActiveSessions)

	req, _ := http.NewRequest(http.MethodGet, "/worker/active-sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
