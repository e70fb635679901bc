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

func TestListActivities_RequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/activities", ListActivitiesHandler(storage.NewMemStore()))

	rec := doJSON(t, router, http.MethodGet, "/api/activities", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_parameter", decodeError(t, rec).Error)
}

func TestCreateActivity_RejectsUnknownAgent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/activities", CreateActivityHandler(storage.NewMemStore(), nil))

	rec := doJSON(t, router, http.MethodPost, "/api/activities", gin.H{
		"agentId": "ghost",
		"type":    "completed",
		"title":   "did a thing",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "agentId", resp.Details[0].Field)
	assert.Equal(t, "exists", resp.Details[0].Rule)
}

func TestCreateActivity_WithoutAgent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pub := &stubPublisher{}
	router := gin.New()
	router.POST("/api/activities", CreateActivityHandler(storage.NewMemStore(), pub))

	rec := doJSON(t, router, http.MethodPost, "/api/activities", gin.H{
		"type":  "info",
		"title": "system notice",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var act types.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &act))
	assert.Nil(t, act.AgentID)
	assert.Equal(t, []string{"activity_created"}, pub.frameTypes())
}

func TestActivityFeedThroughAgents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storage.NewMemStore()
	agent, err := store.CreateAgent(context.Background(), types.NewAgent{
		Name: "Worker", Type: types.AgentTypeWorker, UserID: "user-1",
	})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/api/activities", ListActivitiesHandler(store))
	router.POST("/api/activities", CreateActivityHandler(store, nil))

	rec := doJSON(t, router, http.MethodPost, "/api/activities", gin.H{
		"agentId": agent.ID,
		"type":    "completed",
		"title":   "batch done",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/activities?userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []*types.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "batch done", feed[0].Title)

	rec = doJSON(t, router, http.MethodGet, "/api/activities?userId=user-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}
