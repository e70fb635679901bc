package storage

import (
	"context"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// Store is the interface the HTTP layer depends on. "Not found" is a nil
// result (or false for the boolean operations), never an error; the error
// channel is reserved for backend failures, which the API layer maps to 500.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	CreateUser(ctx context.Context, in types.NewUser) (*types.User, error)
	UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error)

	// Agents
	ListAgents(ctx context.Context, userID string) ([]*types.Agent, error)
	GetAgent(ctx context.Context, id string) (*types.Agent, error)
	CreateAgent(ctx context.Context, in types.NewAgent) (*types.Agent, error)
	UpdateAgent(ctx context.Context, id string, upd types.AgentUpdate) (*types.Agent, error)
	DeleteAgent(ctx context.Context, id string) (bool, error)

	// Activities
	ListActivities(ctx context.Context, userID string, limit int) ([]*types.Activity, error)
	CreateActivity(ctx context.Context, in types.NewActivity) (*types.Activity, error)

	// System metrics
	ListSystemMetrics(ctx context.Context, metricType string, limit int) ([]*types.SystemMetric, error)
	CreateSystemMetric(ctx context.Context, in types.NewSystemMetric) (*types.SystemMetric, error)

	// Chat messages
	ListChatMessages(ctx context.Context, userID string, limit int) ([]*types.ChatMessage, error)
	CreateChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error)

	// Notifications
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*types.Notification, error)
	CreateNotification(ctx context.Context, in types.NewNotification) (*types.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// Integrations
	ListIntegrations(ctx context.Context, userID string) ([]*types.Integration, error)
	CreateIntegration(ctx context.Context, in types.NewIntegration) (*types.Integration, error)
	UpdateIntegration(ctx context.Context, id string, upd types.IntegrationUpdate) (*types.Integration, error)
}

// Default list truncation limits.
const (
	DefaultActivityLimit = 50
	DefaultChatLimit     = 50
	DefaultMetricLimit   = 100
)
