package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/registration-service/internal/services"
	"github.com/SAP-F-2025/registration-service/internal/utils"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Timestamp        string                      `json:"timestamp"`
	Status           int                         `json:"status"`
	Error            string                      `json:"error"`
	Message          string                      `json:"message"`
	Path             string                      `json:"path"`
	Errors           []string                    `json:"errors,omitempty"`
	ValidationErrors validator.ValidationErrors  `json:"validationErrors,omitempty"`
}

// BaseHandler carries shared handler plumbing
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with its request id
func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

// LogError logs a handler-level failure with its request id
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.FromContext(c.Request.Context(), h.logger).Error(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

func newErrorResponse(c *gin.Context, status int, message string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	}
}

// respondError writes the error body for the given status and message
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, newErrorResponse(c, status, message))
}

// ===== ERROR HANDLING =====

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationFailedError
	if errors.As(err, &validationErr) {
		resp := newErrorResponse(c, http.StatusBadRequest, validationErr.Error())
		resp.ValidationErrors = validationErr.Fields
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var bulkErr *services.BulkOperationError
	if errors.As(err, &bulkErr) {
		resp := newErrorResponse(c, http.StatusBadRequest, "Bulk operation failed")
		resp.Errors = bulkErr.Errors
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	switch {
	case errors.Is(err, services.ErrDuplicateEntity):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrValidationFailed):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "You do not have permission to perform this action")
	default:
		h.LogError(c, err, "Unexpected service error")
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}

// bindJSON binds the request body and reports a uniform bad-request body
func (h *BaseHandler) bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
