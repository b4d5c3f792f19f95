package services

import (
	"github.com/yeremiapane/floor-service/models"
	"gorm.io/gorm"
)

// Principal is the authenticated caller as handed over by the identity
// layer.
type Principal struct {
	UserID uint
	Role   string
}

// IsStaff is the one role check used across the services.
func (p Principal) IsStaff() bool {
	return models.IsStaffRole(p.Role)
}

func (p Principal) valid() bool {
	return p.UserID != 0
}

// ScopeRequests restricts a service_requests query to what p may see.
// Staff see every request; anyone else only requests raised from their
// own devices.
func ScopeRequests(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsStaff() {
			return db
		}
		return db.Where("service_requests.customer_device_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.Device{}).Select("id").Where("user_id = ?", p.UserID))
	}
}

// ScopeNotifications restricts a notifications query to p's own inbox.
func ScopeNotifications(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("notifications.recipient_id = ?", p.UserID)
	}
}

// ScopeDevices restricts a devices query to what p may see.
func ScopeDevices(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsStaff() {
			return db
		}
		return db.Where("devices.user_id = ?", p.UserID)
	}
}
