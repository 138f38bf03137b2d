package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

// SuccessResponse wraps successful payloads.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries shared helpers for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request-scoped message with the request id attached.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// parseIDParam reads a positive uint path parameter; on failure it writes
// the 400 and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// currentUserID reads the authenticated user id set by the auth middleware.
func (h *BaseHandler) currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	return id, true
}

// handleServiceError maps service-layer errors onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case err == services.ErrInvalidCredentials || err == services.ErrInvalidToken:
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: err.Error(),
		})
	case err == services.ErrEmailTaken:
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case err == services.ErrPasswordMismatch:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "password_mismatch",
		})
	case err == services.ErrNeedsSubscription:
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "This content needs a premium subscription",
			Code:    "needs_subscription",
		})
	case services.IsDependency(err):
		utils.LoggerFromContext(c, h.logger).Error("dependency failure", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Upstream service unavailable",
		})
	default:
		if protoErr, ok := services.AsAuthProtocol(err); ok {
			status := http.StatusBadRequest
			switch protoErr.Code {
			case services.ResetTooManyAttempts:
				status = http.StatusTooManyRequests
			case services.ResetSessionInvalid:
				status = http.StatusUnauthorized
			}
			c.JSON(status, ErrorResponse{
				Message: protoErr.Message,
				Code:    protoErr.Code,
			})
			return
		}

		utils.LoggerFromContext(c, h.logger).Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
