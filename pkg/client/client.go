// Package client is the Go client for the console API: typed REST calls, an
// invalidate-and-refetch resource cache, and the realtime channel with its
// reconnect state machine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

const defaultTimeout = 15 * time.Second

// Client issues requests against one console deployment.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the API at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, want int) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var decoded struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &decoded) == nil && decoded.Error != "" {
			apiErr.Code = decoded.Error
			apiErr.Message = decoded.Message
		} else {
			apiErr.Code = "unexpected_status"
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GetRaw fetches a resource and returns the raw JSON body. The cache layer
// stores these bytes verbatim.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: "unexpected_status", Message: strings.TrimSpace(string(data))}
	}
	return data, nil
}

func userQuery(userID string) url.Values {
	return url.Values{"userId": []string{userID}}
}

func limitQuery(userID string, limit int) url.Values {
	q := userQuery(userID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByUsername fetches one user by username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodGet, "/api/users/by-username/"+username, nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, in types.NewUser) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, nil, upd, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgents returns the agents owned by a user.
func (c *Client) ListAgents(ctx context.Context, userID string) ([]*types.Agent, error) {
	var out []*types.Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents", userQuery(userID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAgent fetches one agent by id.
func (c *Client) GetAgent(ctx context.Context, id string) (*types.Agent, error) {
	var out types.Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+id, nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAgent registers a new agent.
func (c *Client) CreateAgent(ctx context.Context, in types.NewAgent) (*types.Agent, error) {
	var out types.Agent
	if err := c.do(ctx, http.MethodPost, "/api/agents", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAgent applies a partial update to an agent.
func (c *Client) UpdateAgent(ctx context.Context, id string, upd types.AgentUpdate) (*types.Agent, error) {
	var out types.Agent
	if err := c.do(ctx, http.MethodPut, "/api/agents/"+id, nil, upd, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent removes an agent.
func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/agents/"+id, nil, nil, nil, http.StatusNoContent)
}

// ListActivities returns the newest activities of the user's agents.
func (c *Client) ListActivities(ctx context.Context, userID string, limit int) ([]*types.Activity, error) {
	var out []*types.Activity
	if err := c.do(ctx, http.MethodGet, "/api/activities", limitQuery(userID, limit), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateActivity records a new activity.
func (c *Client) CreateActivity(ctx context.Context, in types.NewActivity) (*types.Activity, error) {
	var out types.Activity
	if err := c.do(ctx, http.MethodPost, "/api/activities", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMetrics returns recent system metrics, optionally filtered by type.
func (c *Client) ListMetrics(ctx context.Context, metricType string, limit int) ([]*types.SystemMetric, error) {
	q := url.Values{}
	if metricType != "" {
		q.Set("type", metricType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []*types.SystemMetric
	if err := c.do(ctx, http.MethodGet, "/api/metrics", q, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMetric appends a metric sample.
func (c *Client) CreateMetric(ctx context.Context, in types.NewSystemMetric) (*types.SystemMetric, error) {
	var out types.SystemMetric
	if err := c.do(ctx, http.MethodPost, "/api/metrics", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChatMessages returns the user's newest chat messages.
func (c *Client) ListChatMessages(ctx context.Context, userID string, limit int) ([]*types.ChatMessage, error) {
	var out []*types.ChatMessage
	if err := c.do(ctx, http.MethodGet, "/api/chat", limitQuery(userID, limit), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// SendChatMessage posts a chat message. For a "user" message the server
// schedules an assistant reply that surfaces on a later list fetch.
func (c *Client) SendChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error) {
	var out types.ChatMessage
	if err := c.do(ctx, http.MethodPost, "/api/chat", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNotifications returns the user's notifications.
func (c *Client) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*types.Notification, error) {
	q := userQuery(userID)
	if unreadOnly {
		q.Set("unreadOnly", "true")
	}
	var out []*types.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", q, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNotification inserts a notification.
func (c *Client) CreateNotification(ctx context.Context, in types.NewNotification) (*types.Notification, error) {
	var out types.Notification
	if err := c.do(ctx, http.MethodPost, "/api/notifications", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkNotificationRead flips one notification to read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/"+id+"/read", nil, nil, nil, http.StatusNoContent)
}

// MarkAllNotificationsRead flips every notification of a user to read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPut, "/api/notifications/mark-all-read", nil, body, nil, http.StatusNoContent)
}

// ListIntegrations returns the user's integrations ordered by name.
func (c *Client) ListIntegrations(ctx context.Context, userID string) ([]*types.Integration, error) {
	var out []*types.Integration
	if err := c.do(ctx, http.MethodGet, "/api/integrations", userQuery(userID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIntegration connects a new integration.
func (c *Client) CreateIntegration(ctx context.Context, in types.NewIntegration) (*types.Integration, error) {
	var out types.Integration
	if err := c.do(ctx, http.MethodPost, "/api/integrations", nil, in, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIntegration applies a partial update to an integration.
func (c *Client) UpdateIntegration(ctx context.Context, id string, upd types.IntegrationUpdate) (*types.Integration, error) {
	var out types.Integration
	if err := c.do(ctx, http.MethodPut, "/api/integrations/"+id, nil, upd, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardStats fetches the live dashboard aggregate.
func (c *Client) DashboardStats(ctx context.Context, userID string) (*types.DashboardStats, error) {
	var out types.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", userQuery(userID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
