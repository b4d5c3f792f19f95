package models

import (
	"fmt"
	"time"
)

// RequestType is what the customer at the table is asking for.
type RequestType string

const (
	RequestTypeWaiter     RequestType = "WAITER"
	RequestTypeBill       RequestType = "BILL"
	RequestTypeOrder      RequestType = "ORDER"
	RequestTypeAssistance RequestType = "ASSISTANCE"
)

var requestTypeLabels = map[RequestType]string{
	RequestTypeWaiter:     "Call Waiter",
	RequestTypeBill:       "Request Bill",
	RequestTypeOrder:      "Place Order",
	RequestTypeAssistance: "Need Assistance",
}

// RequestTypes returns every request type in display order.
func RequestTypes() []RequestType {
	return []RequestType{RequestTypeWaiter, RequestTypeBill, RequestTypeOrder, RequestTypeAssistance}
}

func ParseRequestType(s string) (RequestType, bool) {
	t := RequestType(s)
	_, ok := requestTypeLabels[t]
	return t, ok
}

// Label is the human-readable name used verbatim in notification text.
func (t RequestType) Label() string {
	return requestTypeLabels[t]
}

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending      RequestStatus = "PENDING"
	StatusAcknowledged RequestStatus = "ACKNOWLEDGED"
	StatusInProgress   RequestStatus = "IN_PROGRESS"
	StatusCompleted    RequestStatus = "COMPLETED"
	StatusCancelled    RequestStatus = "CANCELLED"
)

var requestStatusLabels = map[RequestStatus]string{
	StatusPending:      "Pending",
	StatusAcknowledged: "Acknowledged",
	StatusInProgress:   "In Progress",
	StatusCompleted:    "Completed",
	StatusCancelled:    "Cancelled",
}

// RequestStatuses returns every status in lifecycle order.
func RequestStatuses() []RequestStatus {
	return []RequestStatus{StatusPending, StatusAcknowledged, StatusInProgress, StatusCompleted, StatusCancelled}
}

func ParseRequestStatus(s string) (RequestStatus, bool) {
	st := RequestStatus(s)
	_, ok := requestStatusLabels[st]
	return st, ok
}

func (s RequestStatus) Label() string {
	return requestStatusLabels[s]
}

// AllowedTransitions maps a current status to the statuses it may move to.
// The graph is fully permissive: every status reaches every status.
var AllowedTransitions = func() map[RequestStatus][]RequestStatus {
	m := make(map[RequestStatus][]RequestStatus, len(requestStatusLabels))
	for _, from := range RequestStatuses() {
		m[from] = RequestStatuses()
	}
	return m
}()

// CanTransition reports whether the request may move from one status to another.
func CanTransition(from, to RequestStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ServiceRequest struct {
	ID               uint          `gorm:"primaryKey" json:"request_id"`
	TableID          uint          `gorm:"not null;index" json:"table_id"`
	Table            Table         `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"table"`
	RequestType      RequestType   `gorm:"type:varchar(20);not null" json:"request_type"`
	Status           RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CustomerDeviceID uint          `gorm:"not null;index" json:"customer_device_id"`
	CustomerDevice   Device        `gorm:"foreignKey:CustomerDeviceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"customer_device"`
	AssignedStaffID  *uint         `gorm:"index" json:"assigned_staff_id"`
	AssignedStaff    *User         `gorm:"foreignKey:AssignedStaffID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"assigned_staff,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null" json:"updated_at"`
	Notes            *string       `gorm:"type:text" json:"notes"`
}

func (r ServiceRequest) String() string {
	return fmt.Sprintf("Request %d - %s - %s", r.ID, r.RequestType, r.Status)
}
