package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// AgentStore captures the store operations required by agent handlers.
type AgentStore interface {
	ListAgents(ctx context.Context, userID string) ([]*types.Agent, error)
	GetAgent(ctx context.Context, id string) (*types.Agent, error)
	CreateAgent(ctx context.Context, in types.NewAgent) (*types.Agent, error)
	UpdateAgent(ctx context.Context, id string, upd types.AgentUpdate) (*types.Agent, error)
	DeleteAgent(ctx context.Context, id string) (bool, error)
}

// CreateAgentRequest is the agent creation body.
type CreateAgentRequest struct {
	Name          string    `json:"name" binding:"required"`
	Type          string    `json:"type" binding:"required,oneof=analyzer processor generator orchestrator worker"`
	Status        string    `json:"status" binding:"omitempty,oneof=active idle processing error paused"`
	Performance   string    `json:"performance" binding:"omitempty,decimal"`
	Version       string    `json:"version" binding:"required"`
	Description   *string   `json:"description"`
	Configuration types.Map `json:"configuration"`
	UserID        string    `json:"userId" binding:"required"`
}

// UpdateAgentRequest is the partial agent update body.
type UpdateAgentRequest struct {
	Name          *string    `json:"name"`
	Type          *string    `json:"type" binding:"omitempty,oneof=analyzer processor generator orchestrator worker"`
	Status        *string    `json:"status" binding:"omitempty,oneof=active idle processing error paused"`
	Performance   *string    `json:"performance" binding:"omitempty,decimal"`
	Version       *string    `json:"version"`
	Description   *string    `json:"description"`
	Configuration *types.Map `json:"configuration"`
}

// ListAgentsHandler handles GET /api/agents?userId=.
func ListAgentsHandler(store AgentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		agents, err := store.ListAgents(c.Request.Context(), userID)
		if err != nil {
			internalError(c, "fetch agents", err)
			return
		}
		c.JSON(http.StatusOK, agents)
	}
}

// GetAgentHandler handles GET /api/agents/:id.
func GetAgentHandler(store AgentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, err := store.GetAgent(c.Request.Context(), c.Param("id"))
		if err != nil {
			internalError(c, "fetch agent", err)
			return
		}
		if agent == nil {
			notFound(c, "Agent")
			return
		}
		c.JSON(http.StatusOK, agent)
	}
}

// CreateAgentHandler handles POST /api/agents.
func CreateAgentHandler(store AgentStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "agent", err)
			return
		}
		agent, err := store.CreateAgent(c.Request.Context(), types.NewAgent{
			Name:          req.Name,
			Type:          req.Type,
			Status:        req.Status,
			Performance:   req.Performance,
			Version:       req.Version,
			Description:   req.Description,
			Configuration: req.Configuration,
			UserID:        req.UserID,
		})
		if err != nil {
			internalError(c, "create agent", err)
			return
		}
		publish(pub, "agent_created", agent)
		c.JSON(http.StatusCreated, agent)
	}
}

// UpdateAgentHandler handles PUT /api/agents/:id.
func UpdateAgentHandler(store AgentStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateAgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "agent", err)
			return
		}
		agent, err := store.UpdateAgent(c.Request.Context(), c.Param("id"), types.AgentUpdate{
			Name:          req.Name,
			Type:          req.Type,
			Status:        req.Status,
			Performance:   req.Performance,
			Version:       req.Version,
			Description:   req.Description,
			Configuration: req.Configuration,
		})
		if err != nil {
			internalError(c, "update agent", err)
			return
		}
		if agent == nil {
			notFound(c, "Agent")
			return
		}
		publish(pub, "agent_updated", agent)
		c.JSON(http.StatusOK, agent)
	}
}

// DeleteAgentHandler handles DELETE /api/agents/:id. Activities emitted by
// the agent are not cascaded; they keep their dangling reference.
func DeleteAgentHandler(store AgentStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := store.DeleteAgent(c.Request.Context(), id)
		if err != nil {
			internalError(c, "delete agent", err)
			return
		}
		if !deleted {
			notFound(c, "Agent")
			return
		}
		publish(pub, "agent_deleted", gin.H{"id": id})
		c.Status(http.StatusNoContent)
	}
}
