package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	Service *services.NotificationService
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{Service: services.NewNotificationService(db)}
}

// GetAllNotifications -> hanya notifikasi milik caller
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var filter services.NotificationFilter
	if raw := c.Query("is_read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "is_read must be true or false"})
			return
		}
		filter.IsRead = &isRead
	}

	notifs, err := nc.Service.List(c.Request.Context(), p, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// CreateNotification -> broadcast atau specific user (staff only)
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var body struct {
		RecipientID *uint  `json:"recipient_id"`
		Title       string `json:"title" binding:"required"`
		Message     string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	notifs, err := nc.Service.CreateSystemNotification(c.Request.Context(), p, services.SystemNotificationInput{
		RecipientID: body.RecipientID,
		Title:       body.Title,
		Message:     body.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Notification created", notifs)
}

// GetNotificationByID
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "notif_id", "Notification")
	if !ok {
		return
	}

	notif, err := nc.Service.Get(c.Request.Context(), p, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// MarkRead
func (nc *NotificationController) MarkRead(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "notif_id", "Notification")
	if !ok {
		return
	}

	notif, err := nc.Service.MarkRead(c.Request.Context(), p, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllRead
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	updated, err := nc.Service.MarkAllRead(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

// UnreadCount
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	count, err := nc.Service.UnreadCount(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread notification count", gin.H{"unread_count": count})
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "notif_id", "Notification")
	if !ok {
		return
	}

	if err := nc.Service.Delete(c.Request.Context(), p, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
