package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

// DeviceRegistry keeps at most one active device per user.
type DeviceRegistry struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDeviceRegistry(db *gorm.DB) *DeviceRegistry {
	return &DeviceRegistry{db: db, now: time.Now}
}

// RegisterDevice binds deviceID to p and makes it p's only active device.
// It reports whether the device was newly created.
func (r *DeviceRegistry) RegisterDevice(ctx context.Context, p Principal, deviceID string, deviceType string) (*models.Device, bool, error) {
	if !p.valid() {
		return nil, false, ErrUnauthorized
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || deviceType == "" {
		return nil, false, validationError("device_id and device_type are required")
	}
	dt, ok := models.ParseDeviceType(deviceType)
	if !ok {
		return nil, false, validationError("unknown device_type %q", deviceType)
	}

	var (
		device  models.Device
		created bool
	)
	now := r.now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("device_id = ?", deviceID).First(&device).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			device = models.Device{
				DeviceID:   deviceID,
				DeviceType: dt,
				UserID:     p.UserID,
				IsActive:   true,
				LastActive: now,
			}
			if err := tx.Omit("User").Create(&device).Error; err != nil {
				return storageError("create device", err)
			}
			created = true
		case err != nil:
			return storageError("load device", err)
		default:
			if device.UserID != p.UserID {
				return conflictError("device %s is registered to another user", deviceID)
			}
			if err := tx.Model(&device).Updates(map[string]interface{}{
				"is_active":   true,
				"last_active": now,
			}).Error; err != nil {
				return storageError("activate device", err)
			}
		}

		if err := tx.Model(&models.Device{}).
			Where("user_id = ? AND id <> ? AND is_active = ?", p.UserID, device.ID, true).
			Update("is_active", false).Error; err != nil {
			return storageError("deactivate previous devices", err)
		}

		return tx.Preload("User").First(&device, device.ID).Error
	})
	if err != nil {
		return nil, false, storageError("register device", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"device_id": device.DeviceID,
		"user_id":   p.UserID,
		"created":   created,
	}).Info("Device registered")

	return &device, created, nil
}

// GetActiveDevice returns the caller's active device or ErrNoActiveDevice.
func (r *DeviceRegistry) GetActiveDevice(ctx context.Context, p Principal) (*models.Device, error) {
	device, err := NewDirectory(r.db).GetActiveDevice(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrNoActiveDevice
	}
	return device, nil
}

// ListDevices returns the devices p may see, most recently active first.
func (r *DeviceRegistry) ListDevices(ctx context.Context, p Principal) ([]models.Device, error) {
	var devices []models.Device
	if err := r.db.WithContext(ctx).
		Scopes(ScopeDevices(p)).
		Preload("User").
		Order("last_active DESC").Order("id DESC").
		Find(&devices).Error; err != nil {
		return nil, storageError("list devices", err)
	}
	return devices, nil
}

// DeactivateDevice switches off one of p's devices.
func (r *DeviceRegistry) DeactivateDevice(ctx context.Context, p Principal, id uint) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).Scopes(ScopeDevices(p)).First(&device, id).Error
	if err != nil {
		return nil, lookupError("Device", err)
	}
	if err := r.db.WithContext(ctx).Model(&device).Update("is_active", false).Error; err != nil {
		return nil, storageError("deactivate device", err)
	}
	return &device, nil
}
