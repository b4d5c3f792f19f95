package models

import (
	"fmt"
	"time"
)

// DeviceType is the kind of client endpoint a device represents.
type DeviceType string

const (
	DeviceTypeCustomer DeviceType = "CUSTOMER"
	DeviceTypeStaff    DeviceType = "STAFF"
	DeviceTypeMaster   DeviceType = "MASTER"
	DeviceTypeSlave    DeviceType = "SLAVE"
)

var deviceTypeLabels = map[DeviceType]string{
	DeviceTypeCustomer: "Customer",
	DeviceTypeStaff:    "Staff",
	DeviceTypeMaster:   "Master",
	DeviceTypeSlave:    "Slave",
}

// ParseDeviceType accepts only the enumerated device types.
func ParseDeviceType(s string) (DeviceType, bool) {
	t := DeviceType(s)
	_, ok := deviceTypeLabels[t]
	return t, ok
}

func (t DeviceType) Label() string {
	return deviceTypeLabels[t]
}

// Device binds a client endpoint to the user operating it. At most one
// device per user is active at a time; requests are attributed to it.
type Device struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	DeviceID   string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"device_id"`
	DeviceType DeviceType `gorm:"type:varchar(20);not null" json:"device_type"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	IsActive   bool       `gorm:"not null;default:true;index" json:"is_active"`
	LastActive time.Time  `gorm:"not null" json:"last_active"`
	AuthToken  *string    `gorm:"type:varchar(500)" json:"-"`
}

func (d Device) String() string {
	return fmt.Sprintf("%s - %s", d.DeviceID, d.DeviceType)
}
