package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// ChatStore captures the store operations required by chat handlers.
type ChatStore interface {
	ListChatMessages(ctx context.Context, userID string, limit int) ([]*types.ChatMessage, error)
	CreateChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error)
}

// ReplyScheduler arms the delayed assistant reply to a user message.
type ReplyScheduler interface {
	Schedule(userID, prompt string)
}

// CreateChatMessageRequest is the chat creation body.
type CreateChatMessageRequest struct {
	UserID   string    `json:"userId" binding:"required"`
	Role     string    `json:"role" binding:"required,oneof=user assistant"`
	Content  string    `json:"content" binding:"required"`
	Metadata types.Map `json:"metadata"`
}

// ListChatMessagesHandler handles GET /api/chat?userId=&limit=.
func ListChatMessagesHandler(store ChatStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			missingParam(c, "userId")
			return
		}
		messages, err := store.ListChatMessages(c.Request.Context(), userID, parseLimit(c))
		if err != nil {
			internalError(c, "fetch chat messages", err)
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

// CreateChatMessageHandler handles POST /api/chat. A message with role
// "user" additionally schedules a fire-and-forget assistant reply; the
// response carries only the user's message, the reply surfaces on a later
// list fetch.
func CreateChatMessageHandler(store ChatStore, replies ReplyScheduler, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateChatMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "message", err)
			return
		}
		msg, err := store.CreateChatMessage(c.Request.Context(), types.NewChatMessage{
			UserID:   req.UserID,
			Role:     req.Role,
			Content:  req.Content,
			Metadata: req.Metadata,
		})
		if err != nil {
			internalError(c, "create chat message", err)
			return
		}
		if req.Role == types.ChatRoleUser && replies != nil {
			replies.Schedule(req.UserID, req.Content)
		}
		publish(pub, "chat_message", msg)
		c.JSON(http.StatusCreated, msg)
	}
}
