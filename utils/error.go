package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Code:    "internal_error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code, message string) {
	GetLogger().Warn(message, zap.String("code", code), zap.Int("status", status), zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// RespondError maps a service error onto its HTTP status and error code.
func RespondError(c *gin.Context, err error) {
	switch {
	case IsValidation(err):
		JSONError(c, http.StatusBadRequest, "validation_error", err.Error())
	case IsAuthentication(err):
		JSONError(c, http.StatusUnauthorized, "unauthorized", err.Error())
	case IsAuthorization(err):
		JSONError(c, http.StatusForbidden, "forbidden", err.Error())
	case IsNotFound(err):
		JSONError(c, http.StatusNotFound, "not_found", err.Error())
	case IsInvalidTransition(err):
		JSONError(c, http.StatusConflict, "invalid_transition", err.Error())
	case IsConflict(err):
		JSONError(c, http.StatusConflict, "conflict", err.Error())
	default:
		GetLogger().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "something went wrong, please try again",
			Code:  "internal_error",
		})
	}
}
