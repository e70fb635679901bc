package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

func TestSeedDemoData(t *testing.T) {
	s := newTestStore()
	s.Seed()
	ctx := context.Background()

	admin, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "user-1", admin.ID)
	assert.Equal(t, "admin@chitty.cc", admin.Email)
	assert.Equal(t, "admin", admin.Role)
	assert.Equal(t, 847, admin.TrustScore)
	assert.True(t, admin.IsVerified)

	agents, err := s.ListAgents(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, agents, 3)

	activities, err := s.ListActivities(ctx, admin.ID, 0)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	// newest first: -2m, -5m, -8m
	assert.Equal(t, "activity-1", activities[0].ID)
	assert.Equal(t, "activity-2", activities[1].ID)
	assert.Equal(t, "activity-3", activities[2].ID)

	metrics, err := s.ListSystemMetrics(ctx, "health_score", 0)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "94.70", metrics[0].Value)

	unread, err := s.ListNotifications(ctx, admin.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	integrations, err := s.ListIntegrations(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, integrations, 2)
	assert.Equal(t, "GitHub", integrations[0].Name)
	assert.Equal(t, "Google Workspace", integrations[1].Name)
	for _, in := range integrations {
		assert.Equal(t, types.IntegrationStatusConnected, in.Status)
		assert.NotNil(t, in.LastSync)
	}
}
