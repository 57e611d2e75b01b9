package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/assetlog/internal/maintenance"
	"github.com/assetlog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDContextKey = "user_id"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": "invalid_payload"})
		return false
	}
	return true
}

// respondServiceError maps service and reconciler errors onto HTTP statuses.
// Anything unrecognised is logged and reported as 500.
func (a *API) respondServiceError(c *gin.Context, err error, message string) {
	var verr *maintenance.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Error(),
			"code":  verr.Code(),
			"field": verr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrMaintenanceNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrAssetNameRequired),
		errors.Is(err, service.ErrNothingToUpdate):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		a.log.Error(message, "error", err, "path", c.FullPath(), "method", c.Request.Method)
		respondError(c, http.StatusInternalServerError, message)
	}
}

func parseUUIDParam(c *gin.Context, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// currentUserID returns the id AuthRequired stored on the context.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok && id != 0
}
