package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Table{},
		&models.Device{},
		&models.ServiceRequest{},
		&models.Notification{},
		&models.APILog{},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedAdmin creates the bootstrap admin account when it does not exist yet.
// It returns true when a user was created.
func SeedAdmin(db *gorm.DB, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up admin %s: %w", email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin %s: %w", email, err)
	}

	utils.InfoLogger.Printf("Seeded admin user %s (ID=%d)", admin.Email, admin.ID)
	return true, nil
}
