package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/floor-service/controllers"
	"github.com/yeremiapane/floor-service/database"
	"github.com/yeremiapane/floor-service/middlewares"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
)

const testSecret = "controllers-test-secret-key"

// setupTestDB menggunakan SQLite in-memory untuk testing, satu database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()
	utils.SetJWTSecret(testSecret, time.Hour)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupRouterForTest mengonfigurasi router dengan endpoint yang akan diuji
func setupRouterForTest(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	userCtrl := controllers.NewUserController(db)
	deviceCtrl := controllers.NewDeviceController(db)
	tableCtrl := controllers.NewTableController(db)
	requestCtrl := controllers.NewServiceRequestController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)

	api := router.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	staff := middlewares.RequireStaff()

	api.POST("/logout", userCtrl.Logout)
	api.GET("/profile", userCtrl.GetProfile)
	api.POST("/users", middlewares.RequireRole(models.RoleAdmin), userCtrl.CreateUser)

	api.POST("/devices/register", deviceCtrl.RegisterDevice)

	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/:table_id", tableCtrl.GetTableByID)
	api.POST("/tables/:table_id/toggle-occupancy", tableCtrl.ToggleOccupancy)
	api.POST("/tables", staff, tableCtrl.CreateTable)
	api.PATCH("/tables/:table_id", staff, tableCtrl.UpdateTable)
	api.DELETE("/tables/:table_id", staff, tableCtrl.DeleteTable)

	api.GET("/requests", requestCtrl.GetAllRequests)
	api.POST("/requests", requestCtrl.CreateRequest)
	api.GET("/requests/pending", staff, requestCtrl.GetPendingRequests)
	api.GET("/requests/:request_id", requestCtrl.GetRequestByID)
	api.PATCH("/requests/:request_id/status", requestCtrl.UpdateStatus)

	api.GET("/notifications", notificationCtrl.GetAllNotifications)
	api.POST("/notifications", staff, notificationCtrl.CreateNotification)
	api.GET("/notifications/unread-count", notificationCtrl.UnreadCount)
	api.POST("/notifications/read-all", notificationCtrl.MarkAllRead)
	api.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	api.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	api.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	return router
}

func createUser(t *testing.T, db *gorm.DB, name, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "unused",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func createTable(t *testing.T, db *gorm.DB, number string) models.Table {
	t.Helper()
	table := models.Table{TableNumber: number, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func createDevice(t *testing.T, db *gorm.DB, userID uint, deviceID string) models.Device {
	t.Helper()
	device := models.Device{
		DeviceID:   deviceID,
		DeviceType: models.DeviceTypeCustomer,
		UserID:     userID,
		IsActive:   true,
		LastActive: time.Now(),
	}
	require.NoError(t, db.Omit("User").Create(&device).Error)
	return device
}

// doRequest mengirim request JSON dan mengembalikan recorder beserta body yang sudah di-decode
func doRequest(t *testing.T, router *gin.Engine, method, url, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w, response
}

func dataMap(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", response["data"])
	return data
}

func dataList(t *testing.T, response map[string]interface{}) []interface{} {
	t.Helper()
	if response["data"] == nil {
		return nil
	}
	data, ok := response["data"].([]interface{})
	require.True(t, ok, "data is not a list: %v", response["data"])
	return data
}
