package storage

import (
	"time"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

func strptr(s string) *string { return &s }

// Seed loads the demo data set: one admin user, three agents with recent
// activity, a handful of metrics, and two connected integrations. Ids are
// fixed so the dashboard and docs can reference them.
func (s *MemStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	admin := &types.User{
		ID:         "user-1",
		Username:   "admin",
		Email:      "admin@chitty.cc",
		Role:       "admin",
		TrustScore: 847,
		IsVerified: true,
		CreatedAt:  now,
	}
	s.users[admin.ID] = admin

	agents := []*types.Agent{
		{
			ID:          "agent-1",
			Name:        "Content Analyzer v2.1",
			Type:        types.AgentTypeAnalyzer,
			Status:      types.AgentStatusActive,
			Performance: "94.00",
			Version:     "2.1.0",
			Description: strptr("Advanced content analysis and processing"),
			Configuration: types.Map{
				"maxMemory": types.String("4GB"),
				"threads":   types.Int(8),
			},
			UserID:     admin.ID,
			LastActive: now,
			CreatedAt:  now,
		},
		{
			ID:          "agent-2",
			Name:        "Data Processor Alpha",
			Type:        types.AgentTypeProcessor,
			Status:      types.AgentStatusActive,
			Performance: "87.00",
			Version:     "1.5.2",
			Description: strptr("High-performance data processing engine"),
			Configuration: types.Map{
				"batchSize": types.Int(1000),
				"timeout":   types.Int(30),
			},
			UserID:     admin.ID,
			LastActive: now,
			CreatedAt:  now,
		},
		{
			ID:          "agent-3",
			Name:        "Report Generator",
			Type:        types.AgentTypeGenerator,
			Status:      types.AgentStatusProcessing,
			Performance: "76.00",
			Version:     "3.0.1",
			Description: strptr("Automated report generation system"),
			Configuration: types.Map{
				"format":    types.String("pdf"),
				"templates": types.Int(12),
			},
			UserID:     admin.ID,
			LastActive: now,
			CreatedAt:  now,
		},
	}
	for _, a := range agents {
		s.agents[a.ID] = a
	}

	activities := []*types.Activity{
		{
			ID:          "activity-1",
			AgentID:     strptr("agent-1"),
			Type:        "completed",
			Title:       "Data Processor Alpha completed batch analysis",
			Description: strptr("Processed 1,247 records in 2.3 seconds"),
			Metadata: types.Map{
				"records":  types.Int(1247),
				"duration": types.Float(2.3),
			},
			Timestamp: now.Add(-2 * time.Minute),
		},
		{
			ID:          "activity-2",
			AgentID:     strptr("agent-3"),
			Type:        "completed",
			Title:       "Report Generator finished monthly summary",
			Description: strptr("Generated 34-page comprehensive report"),
			Metadata: types.Map{
				"pages":  types.Int(34),
				"format": types.String("pdf"),
			},
			Timestamp: now.Add(-5 * time.Minute),
		},
		{
			ID:          "activity-3",
			AgentID:     strptr("agent-1"),
			Type:        "warning",
			Title:       "Content Analyzer requires attention",
			Description: strptr("Memory usage at 85% capacity"),
			Metadata: types.Map{
				"memoryUsage": types.Int(85),
				"threshold":   types.Int(80),
			},
			Timestamp: now.Add(-8 * time.Minute),
		},
	}
	for _, a := range activities {
		s.activities[a.ID] = a
	}

	metrics := []*types.SystemMetric{
		{ID: "metric-1", MetricType: "health_score", Value: "94.70", Unit: strptr("percentage"), Timestamp: now},
		{ID: "metric-2", MetricType: "processing_speed", Value: "1247.00", Unit: strptr("requests_per_minute"), Timestamp: now},
		{ID: "metric-3", MetricType: "memory_usage", Value: "74.20", Unit: strptr("percentage"), Timestamp: now},
	}
	for _, m := range metrics {
		s.metrics[m.ID] = m
	}

	notifications := []*types.Notification{
		{
			ID:      "notif-1",
			UserID:  admin.ID,
			Type:    "warning",
			Title:   "Memory Warning",
			Message: "Content Analyzer approaching memory limit",
			Metadata: types.Map{
				"agent": types.String("agent-1"),
				"level": types.String("warning"),
			},
			Timestamp: now.Add(-15 * time.Minute),
		},
		{
			ID:      "notif-2",
			UserID:  admin.ID,
			Type:    "success",
			Title:   "Batch Processing Complete",
			Message: "Monthly reports generated successfully",
			Metadata: types.Map{
				"reportCount": types.Int(12),
			},
			Timestamp: now.Add(-time.Hour),
		},
	}
	for _, n := range notifications {
		s.notifications[n.ID] = n
	}

	syncedAt := now
	integrations := []*types.Integration{
		{
			ID:     "integration-1",
			Name:   "GitHub",
			Type:   "github",
			Status: types.IntegrationStatusConnected,
			Configuration: types.Map{
				"repos":   types.List(types.String("chitty-corp/main")),
				"webhook": types.Bool(true),
			},
			UserID:    admin.ID,
			LastSync:  &syncedAt,
			CreatedAt: now,
		},
		{
			ID:     "integration-2",
			Name:   "Google Workspace",
			Type:   "google_workspace",
			Status: types.IntegrationStatusConnected,
			Configuration: types.Map{
				"domain":       types.String("chitty.cc"),
				"syncCalendar": types.Bool(true),
			},
			UserID:    admin.ID,
			LastSync:  &syncedAt,
			CreatedAt: now,
		},
	}
	for _, in := range integrations {
		s.integrations[in.ID] = in
	}
}
