package models

import (
	"fmt"
	"time"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	IsOccupied  bool      `gorm:"not null;default:false" json:"is_occupied"`
	QRCode      *string   `gorm:"type:varchar(255)" json:"qr_code"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (t Table) String() string {
	return fmt.Sprintf("Table %s", t.TableNumber)
}
