package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/telemetry"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	send(c, status, code, message, details, nil)
}

func send(c *gin.Context, status int, code, message string, details interface{}, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["err"] = cause.Error()
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// FromError maps the apperr taxonomy to a status code and sends it. fallback
// is the message used for unexpected failures.
func FromError(c *gin.Context, err error, fallback string) {
	status, code, message := Classify(err, fallback)
	var details interface{}
	if id := c.GetString("requestId"); id != "" {
		details = gin.H{"requestId": id}
	}
	send(c, status, code, message, details, err)
}

// Classify returns the HTTP status, error code and client message for err.
func Classify(err error, fallback string) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal_error", fallback
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", apperr.Message(err, "unauthorized")
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found", apperr.Message(err, "not found")
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request", apperr.Message(err, "invalid request")
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden", apperr.Message(err, "forbidden")
	case errors.Is(err, apperr.ErrGenerationFailure):
		return http.StatusBadGateway, "generation_failed", fallback
	default:
		return http.StatusInternalServerError, "internal_error", fallback
	}
}
