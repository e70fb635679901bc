package types

import (
	"encoding/json"
	"time"
)

// Agent type enum values.
const (
	AgentTypeAnalyzer     = "analyzer"
	AgentTypeProcessor    = "processor"
	AgentTypeGenerator    = "generator"
	AgentTypeOrchestrator = "orchestrator"
	AgentTypeWorker       = "worker"
)

// Agent status enum values.
const (
	AgentStatusActive     = "active"
	AgentStatusIdle       = "idle"
	AgentStatusProcessing = "processing"
	AgentStatusError      = "error"
	AgentStatusPaused     = "paused"
)

// Integration status enum values.
const (
	IntegrationStatusConnected    = "connected"
	IntegrationStatusDisconnected = "disconnected"
	IntegrationStatusError        = "error"
)

// Chat roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// User is an account on the console. A single admin user stands in for a
// real principal; users are never deleted.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	TrustScore int       `json:"trustScore"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Agent is a managed AI agent owned by a user.
type Agent struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Performance   string    `json:"performance"` // decimal string, e.g. "94.00"
	Version       string    `json:"version"`
	Description   *string   `json:"description"`
	Configuration Map       `json:"configuration"`
	UserID        string    `json:"userId"`
	LastActive    time.Time `json:"lastActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Activity is an immutable event emitted by an agent.
type Activity struct {
	ID          string    `json:"id"`
	AgentID     *string   `json:"agentId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Metadata    Map       `json:"metadata"`
	Timestamp   time.Time `json:"timestamp"`
}

// SystemMetric is a global append-only measurement.
type SystemMetric struct {
	ID         string    `json:"id"`
	MetricType string    `json:"metricType"`
	Value      string    `json:"value"` // decimal string
	Unit       *string   `json:"unit"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessage is one turn in the assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Metadata  Map       `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Notification is a per-user alert. Notifications are never deleted; they
// only flip to read.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	Metadata  Map       `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Integration is an external service connection owned by a user.
type Integration struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Configuration Map        `json:"configuration"`
	UserID        string     `json:"userId"`
	LastSync      *time.Time `json:"lastSync"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NewUser carries the client-supplied fields for user creation. The server
// assigns id and createdAt and fills defaults for the rest.
type NewUser struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TrustScore *int   `json:"trustScore"`
	IsVerified *bool  `json:"isVerified"`
}

// NewAgent carries the client-supplied fields for agent creation.
type NewAgent struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Performance   string  `json:"performance"`
	Version       string  `json:"version"`
	Description   *string `json:"description"`
	Configuration Map     `json:"configuration"`
	UserID        string  `json:"userId"`
}

// NewActivity carries the client-supplied fields for activity creation.
type NewActivity struct {
	AgentID     *string `json:"agentId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Metadata    Map     `json:"metadata"`
}

// NewSystemMetric carries the client-supplied fields for metric creation.
type NewSystemMetric struct {
	MetricType string  `json:"metricType"`
	Value      string  `json:"value"`
	Unit       *string `json:"unit"`
}

// NewChatMessage carries the client-supplied fields for chat creation.
type NewChatMessage struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	Content  string `json:"content"`
	Metadata Map    `json:"metadata"`
}

// NewNotification carries the client-supplied fields for notification
// creation.
type NewNotification struct {
	UserID   string `json:"userId"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Metadata Map    `json:"metadata"`
}

// NewIntegration carries the client-supplied fields for integration
// creation.
type NewIntegration struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Configuration Map    `json:"configuration"`
	UserID        string `json:"userId"`
}

// UserUpdate holds the partial fields accepted by a user update. Nil fields
// are left untouched.
type UserUpdate struct {
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	TrustScore *int    `json:"trustScore"`
	IsVerified *bool   `json:"isVerified"`
}

// AgentUpdate holds the partial fields accepted by an agent update.
type AgentUpdate struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	Performance   *string `json:"performance"`
	Version       *string `json:"version"`
	Description   *string `json:"description"`
	Configuration *Map    `json:"configuration"`
}

// IntegrationUpdate holds the partial fields accepted by an integration
// update.
type IntegrationUpdate struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	Configuration *Map    `json:"configuration"`
}

// DashboardStats is the aggregate returned by the stats endpoint. It is
// recomputed from live store state on every call.
type DashboardStats struct {
	ActiveAgents          int          `json:"activeAgents"`
	TotalAgents           int          `json:"totalAgents"`
	RecentActivities      int          `json:"recentActivities"`
	UnreadNotifications   int          `json:"unreadNotifications"`
	SystemHealth          string       `json:"systemHealth"`
	ConnectedIntegrations int          `json:"connectedIntegrations"`
	AgentsByType          AgentsByType `json:"agentsByType"`
}

// AgentsByType breaks the agent count down by the five agent types.
type AgentsByType struct {
	Analyzers     int `json:"analyzers"`
	Processors    int `json:"processors"`
	Generators    int `json:"generators"`
	Orchestrators int `json:"orchestrators"`
	Workers       int `json:"workers"`
}

// Frame is the wire shape pushed over the realtime channel. Data is kept
// raw so the consumer decides how to decode each frame type.
type Frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}
