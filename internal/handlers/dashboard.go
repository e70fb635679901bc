package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// recentActivityWindow caps the recent-activity count in the aggregate.
const recentActivityWindow = 10

// StatsStore captures the listings the dashboard aggregate fans out to.
type StatsStore interface {
	ListAgents(ctx context.Context, userID string) ([]*types.Agent, error)
	ListActivities(ctx context.Context, userID string, limit int) ([]*types.Activity, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*types.Notification, error)
	ListSystemMetrics(ctx context.Context, metricType string, limit int) ([]*types.SystemMetric, error)
	ListIntegrations(ctx context.Context, userID string) ([]*types.Integration, error)
}

// DashboardStatsHandler handles GET /api/dashboard/stats?userId=. The
// aggregate is recomputed from live store state on every call; the five
// listings are read sequentially without a cross-entity snapshot, which is
// accepted for a single-admin deployment.
func DashboardStatsHandler(store StatsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		ctx := c.Request.Context()

		agents, err := store.ListAgents(ctx, userID)
		if err != nil {
			internalError(c, "fetch dashboard stats", err)
			return
		}
		activities, err := store.ListActivities(ctx, userID, recentActivityWindow)
		if err != nil {
			internalError(c, "fetch dashboard stats", err)
			return
		}
		unread, err := store.ListNotifications(ctx, userID, true)
		if err != nil {
			internalError(c, "fetch dashboard stats", err)
			return
		}
		metrics, err := store.ListSystemMetrics(ctx, "", 0)
		if err != nil {
			internalError(c, "fetch dashboard stats", err)
			return
		}
		integrations, err := store.ListIntegrations(ctx, userID)
		if err != nil {
			internalError(c, "fetch dashboard stats", err)
			return
		}

		stats := types.DashboardStats{
			TotalAgents:         len(agents),
			RecentActivities:    len(activities),
			UnreadNotifications: len(unread),
			SystemHealth:        "0",
		}
		for _, a := range agents {
			if a.Status == types.AgentStatusActive {
				stats.ActiveAgents++
			}
			switch a.Type {
			case types.AgentTypeAnalyzer:
				stats.AgentsByType.Analyzers++
			case types.AgentTypeProcessor:
				stats.AgentsByType.Processors++
			case types.AgentTypeGenerator:
				stats.AgentsByType.Generators++
			case types.AgentTypeOrchestrator:
				stats.AgentsByType.Orchestrators++
			case types.AgentTypeWorker:
				stats.AgentsByType.Workers++
			}
		}
		// metrics are newest-first, so the first health_score is the latest
		for _, m := range metrics {
			if m.MetricType == "health_score" {
				stats.SystemHealth = m.Value
				break
			}
		}
		for _, in := range integrations {
			if in.Status == types.IntegrationStatusConnected {
				stats.ConnectedIntegrations++
			}
		}

		c.JSON(http.StatusOK, stats)
	}
}
