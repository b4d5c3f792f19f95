package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationService serves a principal's own inbox.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotificationFilter narrows an inbox listing.
type NotificationFilter struct {
	IsRead *bool
}

// SystemNotificationInput describes a staff-authored SYSTEM notification.
// A nil RecipientID addresses every user.
type SystemNotificationInput struct {
	RecipientID *uint
	Title       string
	Message     string
}

// List returns p's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, p Principal, f NotificationFilter) ([]models.Notification, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}

	q := s.db.WithContext(ctx).Scopes(ScopeNotifications(p))
	if f.IsRead != nil {
		q = q.Where("notifications.is_read = ?", *f.IsRead)
	}

	var notifications []models.Notification
	if err := q.Preload("ServiceRequest").
		Preload("ServiceRequest.Table").
		Order("notifications.created_at DESC").
		Order("notifications.id DESC").
		Find(&notifications).Error; err != nil {
		return nil, storageError("list notifications", err)
	}
	return notifications, nil
}

// Get returns one of p's notifications.
func (s *NotificationService) Get(ctx context.Context, p Principal, id uint) (*models.Notification, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}
	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Scopes(ScopeNotifications(p)).
		Preload("ServiceRequest").
		Preload("ServiceRequest.Table").
		First(&notification, "notifications.id = ?", id).Error; err != nil {
		return nil, lookupError("Notification", err)
	}
	return &notification, nil
}

// MarkRead flags one of p's notifications as read. Notifications addressed
// to anyone else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, p Principal, id uint) (*models.Notification, error) {
	notification, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if notification.IsRead {
		return notification, nil
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Scopes(ScopeNotifications(p)).
		Where("notifications.id = ?", id).
		UpdateColumn("is_read", true).Error; err != nil {
		return nil, storageError("mark notification read", err)
	}
	notification.IsRead = true
	return notification, nil
}

// MarkAllRead flags all of p's notifications as read and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, p Principal) (int64, error) {
	if !p.valid() {
		return 0, ErrUnauthorized
	}
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Scopes(ScopeNotifications(p)).
		Where("notifications.is_read = ?", false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, storageError("mark all notifications read", result.Error)
	}
	return result.RowsAffected, nil
}

// UnreadCount counts p's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, p Principal) (int64, error) {
	if !p.valid() {
		return 0, ErrUnauthorized
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Scopes(ScopeNotifications(p)).
		Where("notifications.is_read = ?", false).
		Count(&count).Error; err != nil {
		return 0, storageError("count unread notifications", err)
	}
	return count, nil
}

// Delete removes one of p's notifications.
func (s *NotificationService) Delete(ctx context.Context, p Principal, id uint) error {
	if !p.valid() {
		return ErrUnauthorized
	}
	result := s.db.WithContext(ctx).
		Scopes(ScopeNotifications(p)).
		Where("notifications.id = ?", id).
		Delete(&models.Notification{})
	if result.Error != nil {
		return storageError("delete notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Notification")
	}
	return nil
}

// CreateSystemNotification lets staff post a SYSTEM notification to one
// user or to everybody.
func (s *NotificationService) CreateSystemNotification(ctx context.Context, p Principal, in SystemNotificationInput) ([]models.Notification, error) {
	if !p.valid() {
		return nil, ErrUnauthorized
	}
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" || in.Message == "" {
		return nil, validationError("title and message are required")
	}

	var notifications []models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipients []uint
		q := tx.Model(&models.User{}).Order("id ASC")
		if in.RecipientID != nil {
			q = q.Where("id = ?", *in.RecipientID)
		}
		if err := q.Pluck("id", &recipients).Error; err != nil {
			return storageError("load recipients", err)
		}
		if len(recipients) == 0 {
			return notFound("Recipient")
		}

		for _, id := range recipients {
			notifications = append(notifications, models.Notification{
				RecipientID:      id,
				NotificationType: models.NotificationSystem,
				Title:            in.Title,
				Message:          in.Message,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&notifications).Error; err != nil {
			return storageError("create system notifications", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("System notification %q sent to %d user(s)", in.Title, len(notifications))
	return notifications, nil
}
