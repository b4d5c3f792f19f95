package models

import "time"

// APILog is one handled API call.
type APILog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Endpoint     string    `gorm:"type:varchar(255);not null" json:"endpoint"`
	Method       string    `gorm:"type:varchar(10);not null" json:"method"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ResponseTime float64   `gorm:"not null" json:"response_time"` // milliseconds
	UserID       *uint     `gorm:"index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Timestamp    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message"`
}

func (APILog) TableName() string {
	return "api_logs"
}
