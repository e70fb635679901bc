// Package server assembles the HTTP surface: middleware, resource routes,
// the realtime websocket endpoint, and process lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chittyapps/chittyinsight/internal/assistant"
	"github.com/chittyapps/chittyinsight/internal/config"
	"github.com/chittyapps/chittyinsight/internal/handlers"
	"github.com/chittyapps/chittyinsight/internal/logger"
	"github.com/chittyapps/chittyinsight/internal/realtime"
	"github.com/chittyapps/chittyinsight/internal/storage"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "chittyinsight_http_request_duration_seconds",
	Help:    "HTTP request latency by method, route and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Server owns the router and the collaborators it serves.
type Server struct {
	Router    *gin.Engine
	cfg       *config.Config
	store     storage.Store
	responder *assistant.Responder
	hub       *realtime.Hub
	httpSrv   *http.Server
}

// New wires the router. The store, responder and hub are constructed by the
// caller and passed in by handle; the server never reaches for globals.
func New(cfg *config.Config, store storage.Store, responder *assistant.Responder, hub *realtime.Hub) *Server {
	s := &Server{
		Router:    gin.New(),
		cfg:       cfg,
		store:     store,
		responder: responder,
		hub:       hub,
	}
	s.Router.Use(gin.Recovery())
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	corsCfg := cors.Config{
		AllowOrigins:     s.cfg.API.CORS.AllowedOrigins,
		AllowMethods:     s.cfg.API.CORS.AllowedMethods,
		AllowHeaders:     s.cfg.API.CORS.AllowedHeaders,
		AllowCredentials: s.cfg.API.CORS.AllowCredentials,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if len(corsCfg.AllowMethods) == 0 {
		corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(corsCfg.AllowHeaders) == 0 {
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
	s.Router.Use(cors.New(corsCfg))

	// request log + latency histogram
	s.Router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(c.Request.Method, route, http.StatusText(c.Writer.Status())).Observe(elapsed.Seconds())
		logger.Logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", elapsed).
			Msg("request")
	})

	if timeout := s.cfg.API.RequestTimeout.Std(); timeout > 0 {
		s.Router.Use(func(c *gin.Context) {
			// websocket connections outlive any request deadline
			if c.Request.URL.Path == "/ws" {
				c.Next()
				return
			}
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.healthCheckHandler)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.Router.GET("/ws", s.hub.Handler())

	api := s.Router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("/by-username/:username", handlers.GetUserByUsernameHandler(s.store))
			users.GET("/:id", handlers.GetUserHandler(s.store))
			users.POST("", handlers.CreateUserHandler(s.store, s.hub))
			users.PUT("/:id", handlers.UpdateUserHandler(s.store, s.hub))
		}

		agents := api.Group("/agents")
		{
			agents.GET("", handlers.ListAgentsHandler(s.store))
			agents.GET("/:id", handlers.GetAgentHandler(s.store))
			agents.POST("", handlers.CreateAgentHandler(s.store, s.hub))
			agents.PUT("/:id", handlers.UpdateAgentHandler(s.store, s.hub))
			agents.DELETE("/:id", handlers.DeleteAgentHandler(s.store, s.hub))
		}

		activities := api.Group("/activities")
		{
			activities.GET("", handlers.ListActivitiesHandler(s.store))
			activities.POST("", handlers.CreateActivityHandler(s.store, s.hub))
		}

		metrics := api.Group("/metrics")
		{
			metrics.GET("", handlers.ListMetricsHandler(s.store))
			metrics.POST("", handlers.CreateMetricHandler(s.store, s.hub))
		}

		chat := api.Group("/chat")
		{
			chat.GET("", handlers.ListChatMessagesHandler(s.store))
			chat.POST("", handlers.CreateChatMessageHandler(s.store, s.responder, s.hub))
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", handlers.ListNotificationsHandler(s.store))
			notifications.POST("", handlers.CreateNotificationHandler(s.store, s.hub))
			notifications.PUT("/mark-all-read", handlers.MarkAllNotificationsReadHandler(s.store, s.hub))
			notifications.PUT("/:id/read", handlers.MarkNotificationReadHandler(s.store, s.hub))
		}

		integrations := api.Group("/integrations")
		{
			integrations.GET("", handlers.ListIntegrationsHandler(s.store))
			integrations.POST("", handlers.CreateIntegrationHandler(s.store, s.hub))
			integrations.PUT("/:id", handlers.UpdateIntegrationHandler(s.store, s.hub))
		}

		api.GET("/dashboard/stats", handlers.DashboardStatsHandler(s.store))
	}
}

func (s *Server) healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"subscribers": s.hub.Subscribers(),
		"time":        time.Now().UTC(),
	})
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Server.Addr(),
		Handler: s.Router,
	}
	logger.Logger.Info().Str("addr", s.httpSrv.Addr).Msg("console listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down, closes the realtime hub, and drains the
// responder so no assistant reply fires after teardown.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.hub.Close()
	s.responder.Close()
	return err
}
