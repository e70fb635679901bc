package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chittyapps/chittyinsight/internal/storage"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

func notificationRouter(store *storage.MemStore, pub Publisher) *gin.Engine {
	router := gin.New()
	router.GET("/api/notifications", ListNotificationsHandler(store))
	router.POST("/api/notifications", CreateNotificationHandler(store, pub))
	router.PUT("/api/notifications/mark-all-read", MarkAllNotificationsReadHandler(store, pub))
	router.PUT("/api/notifications/:id/read", MarkNotificationReadHandler(store, pub))
	return router
}

func TestMarkAllNotificationsRead_RequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := notificationRouter(storage.NewMemStore(), nil)

	rec := doJSON(t, router, http.MethodPut, "/api/notifications/mark-all-read", gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_parameter", decodeError(t, rec).Error)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := notificationRouter(storage.NewMemStore(), nil)

	rec := doJSON(t, router, http.MethodPut, "/api/notifications/ghost/read", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationReadFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storage.NewMemStore()
	pub := &stubPublisher{}
	router := notificationRouter(store, pub)

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", gin.H{
		"userId":  "user-1",
		"type":    "warning",
		"title":   "Memory Warning",
		"message": "approaching limit",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.IsRead)

	_, err := store.CreateNotification(context.Background(), types.NewNotification{
		UserID: "user-1", Type: "info", Title: "second", Message: "m",
	})
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodPut, "/api/notifications/"+created.ID+"/read", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/notifications?userId=user-1&unreadOnly=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread []*types.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unread))
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Title)

	rec = doJSON(t, router, http.MethodPut, "/api/notifications/mark-all-read", gin.H{"userId": "user-1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/notifications?userId=user-1&unreadOnly=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	// repeated mark-all is a no-op, not an error
	rec = doJSON(t, router, http.MethodPut, "/api/notifications/mark-all-read", gin.H{"userId": "user-1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t,
		[]string{"notification_created", "notification_read", "notifications_read", "notifications_read"},
		pub.frameTypes())
}

func TestCreateNotification_RejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := notificationRouter(storage.NewMemStore(), nil)

	rec := doJSON(t, router, http.MethodPost, "/api/notifications", gin.H{
		"userId":  "user-1",
		"type":    "shout",
		"title":   "t",
		"message": "m",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
