package client

import (
	"context"
	"strings"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

const statsPath = "/api/dashboard/stats"

// Sync glues the REST client, the cache, and the realtime channel together:
// reads go through the cache, mutations and incoming frames invalidate the
// affected resource collections so the next read refetches. Frames carry no
// merged state, only the hint that something changed.
type Sync struct {
	*Client
	Cache    *Cache
	Realtime *Realtime
}

// NewSync returns a data-sync layer over c. wsURL is the realtime endpoint;
// leave it empty to run without the push channel.
func NewSync(c *Client, wsURL string, opts ...RealtimeOption) *Sync {
	s := &Sync{Client: c, Cache: NewCache(c)}
	if wsURL != "" {
		opts = append([]RealtimeOption{WithOnFrame(s.HandleFrame)}, opts...)
		s.Realtime = NewRealtime(wsURL, opts...)
	}
	return s
}

// Start opens the realtime channel, if one is configured.
func (s *Sync) Start() {
	if s.Realtime != nil {
		s.Realtime.Connect()
	}
}

// Stop closes the realtime channel.
func (s *Sync) Stop() {
	if s.Realtime != nil {
		s.Realtime.Disconnect()
	}
}

// HandleFrame maps a server frame onto cache invalidations. Unknown frame
// types are ignored so old clients tolerate new server events.
func (s *Sync) HandleFrame(frame types.Frame) {
	switch {
	case strings.HasPrefix(frame.Type, "user"):
		s.Cache.InvalidatePrefix("/api/users")
	case strings.HasPrefix(frame.Type, "agent"):
		s.Cache.InvalidatePrefix("/api/agents")
	case strings.HasPrefix(frame.Type, "activity"):
		s.Cache.InvalidatePrefix("/api/activities")
	case strings.HasPrefix(frame.Type, "metric"):
		s.Cache.InvalidatePrefix("/api/metrics")
	case strings.HasPrefix(frame.Type, "chat"):
		s.Cache.InvalidatePrefix("/api/chat")
	case strings.HasPrefix(frame.Type, "notification"):
		s.Cache.InvalidatePrefix("/api/notifications")
	case strings.HasPrefix(frame.Type, "integration"):
		s.Cache.InvalidatePrefix("/api/integrations")
	default:
		return
	}
	s.Cache.InvalidatePrefix(statsPath)
}

func (s *Sync) invalidate(prefix string) {
	s.Cache.InvalidatePrefix(prefix)
	s.Cache.InvalidatePrefix(statsPath)
}

// CreateUser creates the user and invalidates cached user reads.
func (s *Sync) CreateUser(ctx context.Context, in types.NewUser) (*types.User, error) {
	out, err := s.Client.CreateUser(ctx, in)
	if err == nil {
		s.invalidate("/api/users")
	}
	return out, err
}

// UpdateUser updates the user and invalidates cached user reads.
func (s *Sync) UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error) {
	out, err := s.Client.UpdateUser(ctx, id, upd)
	if err == nil {
		s.invalidate("/api/users")
	}
	return out, err
}

// CreateAgent creates the agent and invalidates cached agent reads.
func (s *Sync) CreateAgent(ctx context.Context, in types.NewAgent) (*types.Agent, error) {
	out, err := s.Client.CreateAgent(ctx, in)
	if err == nil {
		s.invalidate("/api/agents")
	}
	return out, err
}

// UpdateAgent updates the agent and invalidates cached agent reads.
func (s *Sync) UpdateAgent(ctx context.Context, id string, upd types.AgentUpdate) (*types.Agent, error) {
	out, err := s.Client.UpdateAgent(ctx, id, upd)
	if err == nil {
		s.invalidate("/api/agents")
	}
	return out, err
}

// DeleteAgent deletes the agent and invalidates cached agent reads.
func (s *Sync) DeleteAgent(ctx context.Context, id string) error {
	err := s.Client.DeleteAgent(ctx, id)
	if err == nil {
		s.invalidate("/api/agents")
	}
	return err
}

// CreateActivity records the activity and invalidates cached activity reads.
func (s *Sync) CreateActivity(ctx context.Context, in types.NewActivity) (*types.Activity, error) {
	out, err := s.Client.CreateActivity(ctx, in)
	if err == nil {
		s.invalidate("/api/activities")
	}
	return out, err
}

// CreateMetric appends the sample and invalidates cached metric reads.
func (s *Sync) CreateMetric(ctx context.Context, in types.NewSystemMetric) (*types.SystemMetric, error) {
	out, err := s.Client.CreateMetric(ctx, in)
	if err == nil {
		s.invalidate("/api/metrics")
	}
	return out, err
}

// SendChatMessage posts the message and invalidates cached chat reads.
// The eventual assistant reply arrives as a chat frame and invalidates again.
func (s *Sync) SendChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error) {
	out, err := s.Client.SendChatMessage(ctx, in)
	if err == nil {
		s.invalidate("/api/chat")
	}
	return out, err
}

// CreateNotification inserts the notification and invalidates cached reads.
func (s *Sync) CreateNotification(ctx context.Context, in types.NewNotification) (*types.Notification, error) {
	out, err := s.Client.CreateNotification(ctx, in)
	if err == nil {
		s.invalidate("/api/notifications")
	}
	return out, err
}

// MarkNotificationRead marks it read and invalidates cached reads.
func (s *Sync) MarkNotificationRead(ctx context.Context, id string) error {
	err := s.Client.MarkNotificationRead(ctx, id)
	if err == nil {
		s.invalidate("/api/notifications")
	}
	return err
}

// MarkAllNotificationsRead marks them read and invalidates cached reads.
func (s *Sync) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	err := s.Client.MarkAllNotificationsRead(ctx, userID)
	if err == nil {
		s.invalidate("/api/notifications")
	}
	return err
}

// CreateIntegration connects the integration and invalidates cached reads.
func (s *Sync) CreateIntegration(ctx context.Context, in types.NewIntegration) (*types.Integration, error) {
	out, err := s.Client.CreateIntegration(ctx, in)
	if err == nil {
		s.invalidate("/api/integrations")
	}
	return out, err
}

// UpdateIntegration updates the integration and invalidates cached reads.
func (s *Sync) UpdateIntegration(ctx context.Context, id string, upd types.IntegrationUpdate) (*types.Integration, error) {
	out, err := s.Client.UpdateIntegration(ctx, id, upd)
	if err == nil {
		s.invalidate("/api/integrations")
	}
	return out, err
}
