package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chittyapps/chittyinsight/internal/assistant"
	"github.com/chittyapps/chittyinsight/internal/config"
	"github.com/chittyapps/chittyinsight/internal/realtime"
	"github.com/chittyapps/chittyinsight/internal/storage"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

type silentPicker struct{}

func (silentPicker) Pick(string) string { return "ok" }

func newTestServer(t *testing.T) (*Server, *storage.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemStore()
	hub := realtime.NewHub()
	responder := assistant.NewResponder(store, silentPicker{}, assistant.WithDelay(time.Millisecond))
	srv := New(config.Default(), store, responder, hub)
	t.Cleanup(func() {
		require.NoError(t, srv.Stop(context.Background()))
	})
	return srv, store
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// exercise a route first so the histogram has at least one sample
	do(t, srv, http.MethodGet, "/health", "")

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chittyinsight_http_request_duration_seconds")
}

func TestResourceRoutesAreWired(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed()

	cases := []struct {
		method string
		target string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/users/user-1", "", http.StatusOK},
		{http.MethodGet, "/api/users/by-username/admin", "", http.StatusOK},
		{http.MethodPut, "/api/users/user-1", `{"trustScore":900}`, http.StatusOK},
		{http.MethodGet, "/api/agents?userId=user-1", "", http.StatusOK},
		{http.MethodGet, "/api/agents/agent-1", "", http.StatusOK},
		{http.MethodGet, "/api/activities?userId=user-1", "", http.StatusOK},
		{http.MethodGet, "/api/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/chat?userId=user-1", "", http.StatusOK},
		{http.MethodGet, "/api/notifications?userId=user-1", "", http.StatusOK},
		{http.MethodPut, "/api/notifications/notif-1/read", "", http.StatusNoContent},
		{http.MethodPut, "/api/notifications/mark-all-read", `{"userId":"user-1"}`, http.StatusNoContent},
		{http.MethodGet, "/api/integrations?userId=user-1", "", http.StatusOK},
		{http.MethodPut, "/api/integrations/integration-1", `{"status":"error"}`, http.StatusOK},
		{http.MethodGet, "/api/dashboard/stats?userId=user-1", "", http.StatusOK},
	}
	for _, tc := range cases {
		rec := do(t, srv, tc.method, tc.target, tc.body)
		assert.Equalf(t, tc.want, rec.Code, "%s %s: %s", tc.method, tc.target, rec.Body.String())
	}
}

func TestSeededDashboardStats(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed()

	rec := do(t, srv, http.MethodGet, "/api/dashboard/stats?userId=user-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats types.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalAgents)
	assert.Equal(t, 2, stats.ActiveAgents)
	assert.Equal(t, "94.70", stats.SystemHealth)
	assert.Equal(t, 2, stats.ConnectedIntegrations)
	assert.Equal(t, types.AgentsByType{Analyzers: 1, Processors: 1, Generators: 1}, stats.AgentsByType)
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/agents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/agents", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
