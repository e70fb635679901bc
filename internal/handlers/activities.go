package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// ActivityStore captures the store operations required by activity
// handlers. GetAgent is needed to validate the optional agent reference on
// creation.
type ActivityStore interface {
	ListActivities(ctx context.Context, userID string, limit int) ([]*types.Activity, error)
	CreateActivity(ctx context.Context, in types.NewActivity) (*types.Activity, error)
	GetAgent(ctx context.Context, id string) (*types.Agent, error)
}

// CreateActivityRequest is the activity creation body.
type CreateActivityRequest struct {
	AgentID     *string   `json:"agentId"`
	Type        string    `json:"type" binding:"required,oneof=processing completed warning error info"`
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	Metadata    types.Map `json:"metadata"`
}

// ListActivitiesHandler handles GET /api/activities?userId=&limit=.
func ListActivitiesHandler(store ActivityStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		activities, err := store.ListActivities(c.Request.Context(), userID, parseLimit(c))
		if err != nil {
			internalError(c, "fetch activities", err)
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}

// CreateActivityHandler handles POST /api/activities. An agentId, when
// present, must reference an existing agent at creation time; the reference
// may dangle later if that agent is deleted.
func CreateActivityHandler(store ActivityStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "activity", err)
			return
		}
		if req.AgentID != nil {
			agent, err := store.GetAgent(c.Request.Context(), *req.AgentID)
			if err != nil {
				internalError(c, "create activity", err)
				return
			}
			if agent == nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:   "invalid_request",
					Message: "Invalid activity data",
					Code:    http.StatusBadRequest,
					Details: []FieldIssue{{Field: "agentId", Rule: "exists"}},
				})
				return
			}
		}
		activity, err := store.CreateActivity(c.Request.Context(), types.NewActivity{
			AgentID:     req.AgentID,
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			Metadata:    req.Metadata,
		})
		if err != nil {
			internalError(c, "create activity", err)
			return
		}
		publish(pub, "activity_created", activity)
		c.JSON(http.StatusCreated, activity)
	}
}
