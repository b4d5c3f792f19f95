package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/floor-service/database"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

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

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedTable(t *testing.T, db *gorm.DB, number string) models.Table {
	t.Helper()
	table := models.Table{TableNumber: number, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedDevice(t *testing.T, db *gorm.DB, userID uint, deviceID string, active bool) models.Device {
	t.Helper()
	device := models.Device{
		DeviceID:   deviceID,
		DeviceType: models.DeviceTypeCustomer,
		UserID:     userID,
		IsActive:   true,
		LastActive: time.Now(),
	}
	require.NoError(t, db.Omit("User").Create(&device).Error)
	if !active {
		require.NoError(t, db.Model(&device).Update("is_active", false).Error)
		device.IsActive = false
	}
	return device
}

func principalOf(u models.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, db.Where("recipient_id = ?", userID).Order("id ASC").Find(&notifications).Error)
	return notifications
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// floor is the scenario fixture: table "5", customer U1 with device D1,
// staff S1 and S2.
type floor struct {
	db       *gorm.DB
	table    models.Table
	customer models.User
	device   models.Device
	staff1   models.User
	staff2   models.User
}

func setupFloor(t *testing.T) floor {
	t.Helper()
	db := setupTestDB(t)
	f := floor{db: db}
	f.table = seedTable(t, db, "5")
	f.customer = seedUser(t, db, "u1", models.RoleCustomer)
	f.device = seedDevice(t, db, f.customer.ID, "D1", true)
	f.staff1 = seedUser(t, db, "s1", models.RoleStaff)
	f.staff2 = seedUser(t, db, "s2", models.RoleStaff)
	return f
}

func (f floor) createWaiterRequest(t *testing.T) *models.ServiceRequest {
	t.Helper()
	svc := NewServiceRequestService(f.db)
	request, err := svc.CreateRequest(context.Background(), principalOf(f.customer), CreateRequestInput{
		TableID:     f.table.ID,
		RequestType: string(models.RequestTypeWaiter),
	})
	require.NoError(t, err)
	return request
}
