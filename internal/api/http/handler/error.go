package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/user-service/internal/logger"
	"github.com/mpetrov/user-service/internal/model"
)

// ErrorResponse is the JSON error envelope for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse builds an envelope stamped with the current time.
func NewErrorResponse(errorName, message string) ErrorResponse {
	return ErrorResponse{
		Error:     errorName,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse("HTTP Exception", message))
}

// handleError translates store errors into HTTP responses. Domain errors map
// to specific 4xx codes; anything unexpected becomes a generic 500 with the
// detail kept server-side.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse("HTTP Exception", "User not found"))
	case errors.Is(err, model.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, NewErrorResponse("HTTP Exception", "Email already exists"))
	case errors.Is(err, model.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("HTTP Exception", "Database not available"))
	default:
		log.Error("unexpected error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, NewErrorResponse("Internal Server Error", "An unexpected error occurred"))
	}
}
