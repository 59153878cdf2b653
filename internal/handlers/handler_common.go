package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/middleware"
)

// failureResponse maps a service error to the wire error contract: a
// JSON body carrying a description field, with the status derived from
// the sentinel the error unwraps to.
func failureResponse(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var fields apperrors.FieldErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusBadRequest, gin.H{
			"description": "Validation failed.",
			"fields":      fields,
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"description": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"description": "The requested resource does not exist."})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"description": "The resource already exists."})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"description": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"description": "Unauthorized."})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"description": "Forbidden."})
	default:
		logger.Error("unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"description": "Internal server error."})
	}
}

// bindFailure reports a gin binding problem with the same body shape.
func bindFailure(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"description": "Invalid request format: " + err.Error()})
}

// requireUserID pulls the authenticated user id out of the request
// context, responding 401 when the auth middleware did not set one.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"description": "Unauthorized."})
		return "", false
	}
	return userID, true
}
