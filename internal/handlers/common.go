// Package handlers contains the HTTP route handlers, one file per resource
// group. Handlers depend on the narrowest store interface they need so tests
// can stub exactly the calls under test.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/chittyapps/chittyinsight/internal/logger"
)

// ErrorResponse is the error body shared by every route.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Code    int          `json:"code"`
	Details []FieldIssue `json:"details,omitempty"`
}

// FieldIssue is one schema violation inside an invalid request body.
type FieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Publisher pushes realtime frames after successful mutations. A nil
// publisher disables push.
type Publisher interface {
	Publish(frameType string, data any)
}

func publish(pub Publisher, frameType string, data any) {
	if pub != nil {
		pub.Publish(frameType, data)
	}
}

// invalidBody writes a 400 carrying the field-level violations when the
// error came out of the validator, or just the parse failure otherwise.
func invalidBody(c *gin.Context, what string, err error) {
	resp := ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid " + what + " data",
		Code:    http.StatusBadRequest,
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, FieldIssue{
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
	} else {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func missingParam(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "missing_parameter",
		Message: name + " is required",
		Code:    http.StatusBadRequest,
	})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: what + " not found",
		Code:    http.StatusNotFound,
	})
}

// internalError hides the failure detail from the client and logs it.
func internalError(c *gin.Context, what string, err error) {
	logger.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("store operation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Failed to " + what,
		Code:    http.StatusInternalServerError,
	})
}

// parseLimit reads the optional limit query parameter; 0 means "use the
// store default".
func parseLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
