package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides logging and the shared error-to-status mapping for all
// handlers.
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
	}
	if userID, exists := c.Get("user_id"); exists {
		fields = append(fields, "user_id", userID)
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if userID, exists := c.Get("user_id"); exists {
		fields = append(fields, "user_id", userID)
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// handleServiceError maps service errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// ===== CONTEXT AND PARAM HELPERS =====

// currentUser pulls the authenticated account id and role set by the auth
// middleware. Writes a 401 and returns false when missing.
func currentUser(c *gin.Context) (uint, models.UserRole, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, "", false
	}

	role := models.RoleStudent
	if r, exists := c.Get("user_role"); exists {
		if typed, ok := r.(models.UserRole); ok {
			role = typed
		}
	}

	return userID.(uint), role, true
}

// parseIDParam parses a numeric path parameter; 0 means it already responded
// with 400.
func parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseUintQueryPtr(c *gin.Context, param string) *uint {
	valueStr := c.Query(param)
	if valueStr == "" {
		return nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(value)
	return &v
}
