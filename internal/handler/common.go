package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/service"
	"github.com/wchwawa/journal-app-mvp/internal/timezone"
)

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// currentUserID reads the authenticated user from the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return uid, true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *gin.Context, event string, err error) {
	switch {
	case errors.Is(err, timezone.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoDataForPeriod):
		logger.Warn(event, "err", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no data for period"})
	default:
		logger.Error(event, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
