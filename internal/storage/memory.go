package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// MemStore keeps every entity in process memory, one map per entity type
// keyed by id. A single RWMutex makes each operation atomic relative to
// concurrent requests; there is deliberately no cross-entity transaction.
type MemStore struct {
	mu            sync.RWMutex
	users         map[string]*types.User
	agents        map[string]*types.Agent
	activities    map[string]*types.Activity
	metrics       map[string]*types.SystemMetric
	chatMessages  map[string]*types.ChatMessage
	notifications map[string]*types.Notification
	integrations  map[string]*types.Integration

	now func() time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:         make(map[string]*types.User),
		agents:        make(map[string]*types.Agent),
		activities:    make(map[string]*types.Activity),
		metrics:       make(map[string]*types.SystemMetric),
		chatMessages:  make(map[string]*types.ChatMessage),
		notifications: make(map[string]*types.Notification),
		integrations:  make(map[string]*types.Integration),
		now:           time.Now,
	}
}

func newID() string { return uuid.NewString() }

// GetUser returns the user or nil when absent.
func (s *MemStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername scans for a user with the given username.
func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateUser inserts a new user, defaulting role to "user".
func (s *MemStore) CreateUser(ctx context.Context, in types.NewUser) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &types.User{
		ID:        newID(),
		Username:  in.Username,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: s.now(),
	}
	if u.Role == "" {
		u.Role = "user"
	}
	if in.TrustScore != nil {
		u.TrustScore = *in.TrustScore
	}
	if in.IsVerified != nil {
		u.IsVerified = *in.IsVerified
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

// UpdateUser merges partial fields into an existing user.
func (s *MemStore) UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.TrustScore != nil {
		u.TrustScore = *upd.TrustScore
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	cp := *u
	return &cp, nil
}

// ListAgents returns every agent owned by userID, unordered.
func (s *MemStore) ListAgents(ctx context.Context, userID string) ([]*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*types.Agent{}
	for _, a := range s.agents {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// GetAgent returns the agent or nil when absent.
func (s *MemStore) GetAgent(ctx context.Context, id string) (*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// CreateAgent inserts a new agent. Status defaults to "active" and
// performance to "0.00" when omitted.
func (s *MemStore) CreateAgent(ctx context.Context, in types.NewAgent) (*types.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	a := &types.Agent{
		ID:            newID(),
		Name:          in.Name,
		Type:          in.Type,
		Status:        in.Status,
		Performance:   in.Performance,
		Version:       in.Version,
		Description:   in.Description,
		Configuration: in.Configuration,
		UserID:        in.UserID,
		LastActive:    now,
		CreatedAt:     now,
	}
	if a.Status == "" {
		a.Status = types.AgentStatusActive
	}
	if a.Performance == "" {
		a.Performance = "0.00"
	}
	if a.Configuration == nil {
		a.Configuration = types.Map{}
	}
	s.agents[a.ID] = a
	cp := *a
	return &cp, nil
}

// UpdateAgent merges partial fields and bumps lastActive.
func (s *MemStore) UpdateAgent(ctx context.Context, id string, upd types.AgentUpdate) (*types.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.Performance != nil {
		a.Performance = *upd.Performance
	}
	if upd.Version != nil {
		a.Version = *upd.Version
	}
	if upd.Description != nil {
		a.Description = upd.Description
	}
	if upd.Configuration != nil {
		a.Configuration = *upd.Configuration
	}
	a.LastActive = s.now()
	cp := *a
	return &cp, nil
}

// DeleteAgent removes the agent and reports whether it existed. Activities
// referencing the agent are left in place; the dangling reference is a
// deliberate policy of this store.
func (s *MemStore) DeleteAgent(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.agents[id]
	delete(s.agents, id)
	return ok, nil
}

// ListActivities returns the newest activities of the user's agents. The
// owner relation is indirect: an activity belongs to the user whose agent
// emitted it.
func (s *MemStore) ListActivities(ctx context.Context, userID string, limit int) ([]*types.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := map[string]bool{}
	for id, a := range s.agents {
		if a.UserID == userID {
			owned[id] = true
		}
	}

	out := []*types.Activity{}
	for _, act := range s.activities {
		if act.AgentID != nil && owned[*act.AgentID] {
			cp := *act
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateActivity inserts an immutable activity record.
func (s *MemStore) CreateActivity(ctx context.Context, in types.NewActivity) (*types.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	act := &types.Activity{
		ID:          newID(),
		AgentID:     in.AgentID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Metadata:    in.Metadata,
		Timestamp:   s.now(),
	}
	if act.Metadata == nil {
		act.Metadata = types.Map{}
	}
	s.activities[act.ID] = act
	cp := *act
	return &cp, nil
}

// ListSystemMetrics returns the newest metrics, optionally filtered by type.
func (s *MemStore) ListSystemMetrics(ctx context.Context, metricType string, limit int) ([]*types.SystemMetric, error) {
	if limit <= 0 {
		limit = DefaultMetricLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*types.SystemMetric{}
	for _, m := range s.metrics {
		if metricType != "" && m.MetricType != metricType {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateSystemMetric appends a metric sample.
func (s *MemStore) CreateSystemMetric(ctx context.Context, in types.NewSystemMetric) (*types.SystemMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &types.SystemMetric{
		ID:         newID(),
		MetricType: in.MetricType,
		Value:      in.Value,
		Unit:       in.Unit,
		Timestamp:  s.now(),
	}
	s.metrics[m.ID] = m
	cp := *m
	return &cp, nil
}

// ListChatMessages returns the user's newest messages.
func (s *MemStore) ListChatMessages(ctx context.Context, userID string, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*types.ChatMessage{}
	for _, msg := range s.chatMessages {
		if msg.UserID == userID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateChatMessage appends a chat message.
func (s *MemStore) CreateChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := &types.ChatMessage{
		ID:        newID(),
		UserID:    in.UserID,
		Role:      in.Role,
		Content:   in.Content,
		Metadata:  in.Metadata,
		Timestamp: s.now(),
	}
	if msg.Metadata == nil {
		msg.Metadata = types.Map{}
	}
	s.chatMessages[msg.ID] = msg
	cp := *msg
	return &cp, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *MemStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*types.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*types.Notification{}
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// CreateNotification inserts an unread notification.
func (s *MemStore) CreateNotification(ctx context.Context, in types.NewNotification) (*types.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &types.Notification{
		ID:        newID(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		IsRead:    false,
		Metadata:  in.Metadata,
		Timestamp: s.now(),
	}
	if n.Metadata == nil {
		n.Metadata = types.Map{}
	}
	s.notifications[n.ID] = n
	cp := *n
	return &cp, nil
}

// MarkNotificationRead flips a single notification to read.
func (s *MemStore) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

// MarkAllNotificationsRead flips every notification owned by userID to
// read, unconditionally. Calling it again is a no-op.
func (s *MemStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ListIntegrations returns the user's integrations ordered by name.
func (s *MemStore) ListIntegrations(ctx context.Context, userID string) ([]*types.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*types.Integration{}
	for _, in := range s.integrations {
		if in.UserID == userID {
			cp := *in
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateIntegration inserts a new integration, defaulting status to
// "connected".
func (s *MemStore) CreateIntegration(ctx context.Context, in types.NewIntegration) (*types.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &types.Integration{
		ID:            newID(),
		Name:          in.Name,
		Type:          in.Type,
		Status:        in.Status,
		Configuration: in.Configuration,
		UserID:        in.UserID,
		CreatedAt:     s.now(),
	}
	if rec.Status == "" {
		rec.Status = types.IntegrationStatusConnected
	}
	if rec.Configuration == nil {
		rec.Configuration = types.Map{}
	}
	s.integrations[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

// UpdateIntegration merges partial fields and bumps lastSync.
func (s *MemStore) UpdateIntegration(ctx context.Context, id string, upd types.IntegrationUpdate) (*types.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.integrations[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		rec.Name = *upd.Name
	}
	if upd.Type != nil {
		rec.Type = *upd.Type
	}
	if upd.Status != nil {
		rec.Status = *upd.Status
	}
	if upd.Configuration != nil {
		rec.Configuration = *upd.Configuration
	}
	now := s.now()
	rec.LastSync = &now
	cp := *rec
	return &cp, nil
}
