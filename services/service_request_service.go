package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const statusUpdatedTitle = "Request Status Updated"

// ServiceRequestService runs the service-request lifecycle: creation with
// staff fan-out, status transitions with the sticky assignment rule, and
// the scoped read paths.
type ServiceRequestService struct {
	db        *gorm.DB
	directory func(*gorm.DB) Directory
	now       func() time.Time
}

func NewServiceRequestService(db *gorm.DB) *ServiceRequestService {
	return &ServiceRequestService{
		db:        db,
		directory: NewDirectory,
		now:       time.Now,
	}
}

// CreateRequestInput carries the caller-supplied fields of a new request.
type CreateRequestInput struct {
	TableID     uint
	RequestType string
	Notes       *string
}

// RequestFilter narrows a request listing. It never widens the caller's
// scope.
type RequestFilter struct {
	Status      string
	RequestType string
	TableID     uint
}

// CreateRequest records a new PENDING request from p's active device and
// notifies every staff member. Both writes share one transaction.
func (s *ServiceRequestService) CreateRequest(ctx context.Context, p Principal, in CreateRequestInput) (*models.ServiceRequest, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}
	requestType, ok := models.ParseRequestType(in.RequestType)
	if !ok {
		return nil, validationError("invalid request_type %q", in.RequestType)
	}
	if in.Notes != nil {
		trimmed := strings.TrimSpace(*in.Notes)
		in.Notes = &trimmed
	}

	var (
		request models.ServiceRequest
		fanOut  int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dir := s.directory(tx)

		device, err := dir.GetActiveDevice(ctx, p.UserID)
		if err != nil {
			return err
		}
		if device == nil {
			return ErrNoActiveDevice
		}

		table, err := dir.GetTable(ctx, in.TableID)
		if err != nil {
			return err
		}
		if table == nil {
			return ErrTableNotFound
		}

		request = models.ServiceRequest{
			TableID:          table.ID,
			RequestType:      requestType,
			Status:           models.StatusPending,
			CustomerDeviceID: device.ID,
			Notes:            in.Notes,
		}
		if err := tx.Omit(clause.Associations).Create(&request).Error; err != nil {
			return storageError("create service request", err)
		}
		request.Table = *table

		staff, err := dir.ListStaffPrincipals(ctx)
		if err != nil {
			return err
		}
		notifications := staffNotifications(request, staff)
		fanOut = len(notifications)
		if fanOut == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&notifications).Error; err != nil {
			return storageError("create staff notifications", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"request_id":   request.ID,
		"table":        request.Table.TableNumber,
		"request_type": request.RequestType,
		"notified":     fanOut,
	}).Info("Service request created")

	return s.load(ctx, s.db, request.ID)
}

// staffNotifications builds one SERVICE_REQUEST notification per staff
// member for a freshly created request.
func staffNotifications(request models.ServiceRequest, staff []models.User) []models.Notification {
	label := request.RequestType.Label()
	title := fmt.Sprintf("New %s", label)
	message := fmt.Sprintf("Table %s requires %s", request.Table.TableNumber, label)

	notifications := make([]models.Notification, 0, len(staff))
	for _, member := range staff {
		requestID := request.ID
		notifications = append(notifications, models.Notification{
			RecipientID:      member.ID,
			NotificationType: models.NotificationServiceRequest,
			Title:            title,
			Message:          message,
			ServiceRequestID: &requestID,
		})
	}
	return notifications
}

// statusNotification builds the ORDER_UPDATE notification for the owner of
// the requesting device.
func statusNotification(request models.ServiceRequest) models.Notification {
	requestID := request.ID
	return models.Notification{
		RecipientID:      request.CustomerDevice.UserID,
		NotificationType: models.NotificationOrderUpdate,
		Title:            statusUpdatedTitle,
		Message:          fmt.Sprintf("Your request status is now: %s", request.Status.Label()),
		ServiceRequestID: &requestID,
	}
}

// UpdateStatus moves a request to newStatus. Acknowledgement by staff
// claims an unassigned request for the acting principal; the claim is a
// compare-and-set so concurrent acknowledgements cannot both win. The
// device owner receives exactly one notification.
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, p Principal, requestID uint, newStatus string) (*models.ServiceRequest, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}
	status, ok := models.ParseRequestStatus(newStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var (
		request models.ServiceRequest
		claimed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.load(ctx, tx.Scopes(ScopeRequests(p)), requestID)
		if err != nil {
			return err
		}
		if !models.CanTransition(current.Status, status) {
			return validationError("cannot move request from %s to %s", current.Status, status)
		}

		if status == models.StatusAcknowledged && p.IsStaff() {
			claimed, err = claimRequest(tx, requestID, p.UserID)
			if err != nil {
				return err
			}
		}

		if err := tx.Model(&models.ServiceRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": s.now(),
			}).Error; err != nil {
			return storageError("update request status", err)
		}

		updated, err := s.load(ctx, tx, requestID)
		if err != nil {
			return err
		}
		request = *updated

		notification := statusNotification(request)
		if err := tx.Omit(clause.Associations).Create(&notification).Error; err != nil {
			return storageError("create status notification", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"status":     request.Status,
		"actor":      p.UserID,
		"claimed":    claimed,
	}).Info("Service request status updated")

	return &request, nil
}

// claimRequest sets assigned_staff_id only while it is still unset and
// reports whether this call made the assignment.
func claimRequest(tx *gorm.DB, requestID, staffID uint) (bool, error) {
	result := tx.Model(&models.ServiceRequest{}).
		Where("id = ? AND assigned_staff_id IS NULL", requestID).
		UpdateColumn("assigned_staff_id", staffID)
	if result.Error != nil {
		return false, storageError("assign staff", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GetRequest returns one request visible to p.
func (s *ServiceRequestService) GetRequest(ctx context.Context, p Principal, requestID uint) (*models.ServiceRequest, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}
	return s.load(ctx, s.db.WithContext(ctx).Scopes(ScopeRequests(p)), requestID)
}

// ListRequests returns the requests visible to p, newest first.
func (s *ServiceRequestService) ListRequests(ctx context.Context, p Principal, f RequestFilter) ([]models.ServiceRequest, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}

	q := s.db.WithContext(ctx).Scopes(ScopeRequests(p))
	if f.Status != "" {
		status, ok := models.ParseRequestStatus(f.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		q = q.Where("service_requests.status = ?", status)
	}
	if f.RequestType != "" {
		rt, ok := models.ParseRequestType(f.RequestType)
		if !ok {
			return nil, validationError("invalid request_type %q", f.RequestType)
		}
		q = q.Where("service_requests.request_type = ?", rt)
	}
	if f.TableID != 0 {
		q = q.Where("service_requests.table_id = ?", f.TableID)
	}

	return s.find(q)
}

// PendingRequests returns every PENDING request, newest first. Callers gate
// it to staff.
func (s *ServiceRequestService) PendingRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	return s.find(s.db.WithContext(ctx).Where("service_requests.status = ?", models.StatusPending))
}

func (s *ServiceRequestService) find(q *gorm.DB) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	if err := withRequestAssociations(q).
		Order("service_requests.created_at DESC").
		Order("service_requests.id DESC").
		Find(&requests).Error; err != nil {
		return nil, storageError("list service requests", err)
	}
	return requests, nil
}

func (s *ServiceRequestService) load(ctx context.Context, q *gorm.DB, requestID uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := withRequestAssociations(q.WithContext(ctx)).
		First(&request, "service_requests.id = ?", requestID).Error; err != nil {
		return nil, lookupError("Service request", err)
	}
	return &request, nil
}

func withRequestAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("Table").
		Preload("CustomerDevice").
		Preload("CustomerDevice.User").
		Preload("AssignedStaff")
}
