package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// IntegrationStore captures the store operations required by integration
// handlers.
type IntegrationStore interface {
	ListIntegrations(ctx context.Context, userID string) ([]*types.Integration, error)
	CreateIntegration(ctx context.Context, in types.NewIntegration) (*types.Integration, error)
	UpdateIntegration(ctx context.Context, id string, upd types.IntegrationUpdate) (*types.Integration, error)
}

// CreateIntegrationRequest is the integration creation body. The type is a
// free string (github, google_workspace, ...).
type CreateIntegrationRequest struct {
	Name          string    `json:"name" binding:"required"`
	Type          string    `json:"type" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,oneof=connected disconnected error"`
	Configuration types.Map `json:"configuration"`
	UserID        string    `json:"userId" binding:"required"`
}

// UpdateIntegrationRequest is the partial integration update body.
type UpdateIntegrationRequest struct {
	Name          *string    `json:"name"`
	Type          *string    `json:"type"`
	Status        *string    `json:"status" binding:"omitempty,oneof=connected disconnected error"`
	Configuration *types.Map `json:"configuration"`
}

// ListIntegrationsHandler handles GET /api/integrations?userId=.
func ListIntegrationsHandler(store IntegrationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		integrations, err := store.ListIntegrations(c.Request.Context(), userID)
		if err != nil {
			internalError(c, "fetch integrations", err)
			return
		}
		c.JSON(http.StatusOK, integrations)
	}
}

// CreateIntegrationHandler handles POST /api/integrations.
func CreateIntegrationHandler(store IntegrationStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "integration", err)
			return
		}
		integration, err := store.CreateIntegration(c.Request.Context(), types.NewIntegration{
			Name:          req.Name,
			Type:          req.Type,
			Status:        req.Status,
			Configuration: req.Configuration,
			UserID:        req.UserID,
		})
		if err != nil {
			internalError(c, "create integration", err)
			return
		}
		publish(pub, "integration_created", integration)
		c.JSON(http.StatusCreated, integration)
	}
}

// UpdateIntegrationHandler handles PUT /api/integrations/:id.
func UpdateIntegrationHandler(store IntegrationStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "integration", err)
			return
		}
		integration, err := store.UpdateIntegration(c.Request.Context(), c.Param("id"), types.IntegrationUpdate{
			Name:          req.Name,
			Type:          req.Type,
			Status:        req.Status,
			Configuration: req.Configuration,
		})
		if err != nil {
			internalError(c, "update integration", err)
			return
		}
		if integration == nil {
			notFound(c, "Integration")
			return
		}
		publish(pub, "integration_updated", integration)
		c.JSON(http.StatusOK, integration)
	}
}
