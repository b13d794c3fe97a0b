package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/middleware"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps a service error onto its HTTP status. Messages of
// AppErrors are safe to show; anything that ends up as a 500 is logged and
// replaced with a generic message.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else {
		switch status {
		case http.StatusNotFound:
			message = "Resource not found"
		case http.StatusConflict:
			message = "Resource already exists"
		}
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: message})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid request payload", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// pathUUID reads a UUID path parameter. On a malformed value it answers 400
// and returns false.
func pathUUID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Malformed path id",
			slog.String("param", name), slog.String("value", raw))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " format"})
		return "", false
	}
	return id.String(), true
}
