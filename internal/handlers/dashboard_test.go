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

func TestDashboardStats_RequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/dashboard/stats", DashboardStatsHandler(storage.NewMemStore()))

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_parameter", decodeError(t, rec).Error)
}

func TestDashboardStats_EmptyStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/dashboard/stats", DashboardStatsHandler(storage.NewMemStore()))

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/stats?userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats types.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.TotalAgents)
	assert.Equal(t, "0", stats.SystemHealth)
}

func TestDashboardStats_Aggregates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storage.NewMemStore()
	ctx := context.Background()

	analyzer, err := store.CreateAgent(ctx, types.NewAgent{
		Name: "Analyzer", Type: types.AgentTypeAnalyzer, UserID: "user-1",
	})
	require.NoError(t, err)
	paused := types.AgentStatusPaused
	worker, err := store.CreateAgent(ctx, types.NewAgent{
		Name: "Worker", Type: types.AgentTypeWorker, UserID: "user-1",
	})
	require.NoError(t, err)
	_, err = store.UpdateAgent(ctx, worker.ID, types.AgentUpdate{Status: &paused})
	require.NoError(t, err)
	// someone else's agent must not count
	_, err = store.CreateAgent(ctx, types.NewAgent{
		Name: "Other", Type: types.AgentTypeWorker, UserID: "user-2",
	})
	require.NoError(t, err)

	_, err = store.CreateActivity(ctx, types.NewActivity{AgentID: &analyzer.ID, Type: "completed", Title: "done"})
	require.NoError(t, err)

	_, err = store.CreateNotification(ctx, types.NewNotification{UserID: "user-1", Type: "warning", Title: "t", Message: "m"})
	require.NoError(t, err)

	_, err = store.CreateSystemMetric(ctx, types.NewSystemMetric{MetricType: "health_score", Value: "91.00"})
	require.NoError(t, err)
	// cpu samples must not shadow the health score
	_, err = store.CreateSystemMetric(ctx, types.NewSystemMetric{MetricType: "cpu_usage", Value: "40.00"})
	require.NoError(t, err)

	_, err = store.CreateIntegration(ctx, types.NewIntegration{Name: "GitHub", Type: "github", UserID: "user-1"})
	require.NoError(t, err)
	_, err = store.CreateIntegration(ctx, types.NewIntegration{
		Name: "Slack", Type: "slack", Status: types.IntegrationStatusError, UserID: "user-1",
	})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/api/dashboard/stats", DashboardStatsHandler(store))

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/stats?userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats types.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.Equal(t, 2, stats.TotalAgents)
	assert.Equal(t, 1, stats.ActiveAgents)
	assert.Equal(t, 1, stats.RecentActivities)
	assert.Equal(t, 1, stats.UnreadNotifications)
	assert.Equal(t, "91.00", stats.SystemHealth)
	assert.Equal(t, 1, stats.ConnectedIntegrations)
	assert.Equal(t, types.AgentsByType{Analyzers: 1, Workers: 1}, stats.AgentsByType)

	// the aggregate is recomputed from live state, not cached
	_, err = store.CreateAgent(ctx, types.NewAgent{
		Name: "Generator", Type: types.AgentTypeGenerator, UserID: "user-1",
	})
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/stats?userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalAgents)
	assert.Equal(t, 1, stats.AgentsByType.Generators)
}
