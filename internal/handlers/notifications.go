package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// NotificationStore captures the store operations required by notification
// handlers.
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*types.Notification, error)
	CreateNotification(ctx context.Context, in types.NewNotification) (*types.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// CreateNotificationRequest is the notification creation body.
type CreateNotificationRequest struct {
	UserID   string    `json:"userId" binding:"required"`
	Type     string    `json:"type" binding:"required,oneof=warning success info error"`
	Title    string    `json:"title" binding:"required"`
	Message  string    `json:"message" binding:"required"`
	Metadata types.Map `json:"metadata"`
}

// MarkAllReadRequest is the bulk mark-read body.
type MarkAllReadRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ListNotificationsHandler handles GET /api/notifications?userId=&unreadOnly=.
func ListNotificationsHandler(store NotificationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		unreadOnly := c.Query("unreadOnly") == "true"
		notifications, err := store.ListNotifications(c.Request.Context(), userID, unreadOnly)
		if err != nil {
			internalError(c, "fetch notifications", err)
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// CreateNotificationHandler handles POST /api/notifications.
func CreateNotificationHandler(store NotificationStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "notification", err)
			return
		}
		notification, err := store.CreateNotification(c.Request.Context(), types.NewNotification{
			UserID:   req.UserID,
			Type:     req.Type,
			Title:    req.Title,
			Message:  req.Message,
			Metadata: req.Metadata,
		})
		if err != nil {
			internalError(c, "create notification", err)
			return
		}
		publish(pub, "notification_created", notification)
		c.JSON(http.StatusCreated, notification)
	}
}

// MarkNotificationReadHandler handles PUT /api/notifications/:id/read.
func MarkNotificationReadHandler(store NotificationStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ok, err := store.MarkNotificationRead(c.Request.Context(), id)
		if err != nil {
			internalError(c, "mark notification as read", err)
			return
		}
		if !ok {
			notFound(c, "Notification")
			return
		}
		publish(pub, "notification_read", gin.H{"id": id})
		c.Status(http.StatusNoContent)
	}
}

// MarkAllNotificationsReadHandler handles PUT /api/notifications/mark-all-read.
// The operation is idempotent: a second call finds everything already read
// and changes nothing.
func MarkAllNotificationsReadHandler(store NotificationStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkAllReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			missingParam(c, "userId")
			return
		}
		if err := store.MarkAllNotificationsRead(c.Request.Context(), req.UserID); err != nil {
			internalError(c, "mark all notifications as read", err)
			return
		}
		publish(pub, "notifications_read", gin.H{"userId": req.UserID})
		c.Status(http.StatusNoContent)
	}
}
