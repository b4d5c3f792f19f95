package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/floor-service/models"
	"gorm.io/gorm"
)

// Directory answers the lookups the lifecycle engine needs from the
// identity, device and floor collaborators.
type Directory interface {
	GetActiveDevice(ctx context.Context, userID uint) (*models.Device, error)
	GetTable(ctx context.Context, tableID uint) (*models.Table, error)
	ListStaffPrincipals(ctx context.Context) ([]models.User, error)
}

type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory returns a Directory reading through db, which may be a
// transaction.
func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

// GetActiveDevice returns nil, nil when the user has no active device.
func (d *gormDirectory) GetActiveDevice(ctx context.Context, userID uint) (*models.Device, error) {
	var device models.Device
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_active DESC").Order("id DESC").
		First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("load active device", err)
	}
	return &device, nil
}

// GetTable returns nil, nil when the table does not exist.
func (d *gormDirectory) GetTable(ctx context.Context, tableID uint) (*models.Table, error) {
	var table models.Table
	err := d.db.WithContext(ctx).First(&table, tableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("load table", err)
	}
	return &table, nil
}

func (d *gormDirectory) ListStaffPrincipals(ctx context.Context) ([]models.User, error) {
	var staff []models.User
	if err := d.db.WithContext(ctx).
		Where("role IN ?", models.StaffRoles).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		return nil, storageError("list staff", err)
	}
	return staff, nil
}
