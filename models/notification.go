package models

import (
	"time"
)

// NotificationType classifies why a notification was raised.
type NotificationType string

const (
	NotificationServiceRequest NotificationType = "SERVICE_REQUEST"
	NotificationOrderUpdate    NotificationType = "ORDER_UPDATE"
	NotificationSystem         NotificationType = "SYSTEM"
)

var notificationTypeLabels = map[NotificationType]string{
	NotificationServiceRequest: "Service Request",
	NotificationOrderUpdate:    "Order Update",
	NotificationSystem:         "System",
}

func ParseNotificationType(s string) (NotificationType, bool) {
	t := NotificationType(s)
	_, ok := notificationTypeLabels[t]
	return t, ok
}

func (t NotificationType) Label() string {
	return notificationTypeLabels[t]
}

// Notification is addressed to exactly one recipient. Only IsRead changes
// after creation.
type Notification struct {
	ID               uint             `gorm:"primaryKey" json:"notification_id"`
	RecipientID      uint             `gorm:"not null;index" json:"recipient_id"`
	Recipient        User             `gorm:"foreignKey:RecipientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	NotificationType NotificationType `gorm:"type:varchar(30);not null" json:"notification_type"`
	Title            string           `gorm:"type:varchar(255);not null" json:"title"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	ServiceRequestID *uint            `gorm:"index" json:"service_request_id"`
	ServiceRequest   *ServiceRequest  `gorm:"foreignKey:ServiceRequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"service_request,omitempty"`
	IsRead           bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt        time.Time        `gorm:"not null;index" json:"created_at"`
}
