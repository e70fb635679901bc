package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// UserStore captures the store operations required by user handlers.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	CreateUser(ctx context.Context, in types.NewUser) (*types.User, error)
	UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error)
}

// CreateUserRequest is the user creation body.
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"omitempty,oneof=admin user viewer"`
	TrustScore *int   `json:"trustScore"`
	IsVerified *bool  `json:"isVerified"`
}

// UpdateUserRequest is the partial user update body.
type UpdateUserRequest struct {
	Email      *string `json:"email" binding:"omitempty,email"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin user viewer"`
	TrustScore *int    `json:"trustScore"`
	IsVerified *bool   `json:"isVerified"`
}

// GetUserHandler handles GET /api/users/:id.
func GetUserHandler(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := store.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			internalError(c, "fetch user", err)
			return
		}
		if user == nil {
			notFound(c, "User")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetUserByUsernameHandler handles GET /api/users/by-username/:username.
func GetUserByUsernameHandler(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := store.GetUserByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			internalError(c, "fetch user", err)
			return
		}
		if user == nil {
			notFound(c, "User")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// CreateUserHandler handles POST /api/users.
func CreateUserHandler(store UserStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "user", err)
			return
		}
		user, err := store.CreateUser(c.Request.Context(), types.NewUser{
			Username:   req.Username,
			Email:      req.Email,
			Role:       req.Role,
			TrustScore: req.TrustScore,
			IsVerified: req.IsVerified,
		})
		if err != nil {
			internalError(c, "create user", err)
			return
		}
		publish(pub, "user_created", user)
		c.JSON(http.StatusCreated, user)
	}
}

// UpdateUserHandler handles PUT /api/users/:id.
func UpdateUserHandler(store UserStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "user", err)
			return
		}
		user, err := store.UpdateUser(c.Request.Context(), c.Param("id"), types.UserUpdate{
			Email:      req.Email,
			Role:       req.Role,
			TrustScore: req.TrustScore,
			IsVerified: req.IsVerified,
		})
		if err != nil {
			internalError(c, "update user", err)
			return
		}
		if user == nil {
			notFound(c, "User")
			return
		}
		publish(pub, "user_updated", user)
		c.JSON(http.StatusOK, user)
	}
}
