package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/service"
)

type SummaryHandler struct {
	summaries *service.SummaryService
	sync      *service.SyncService
}

func NewSummaryHandler(summaries *service.SummaryService, sync *service.SyncService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, sync: sync}
}

// POST /api/summaries/generate  body: {"date":"2025-11-13"}
//
// Generates the day's narrative summary, then kicks off the reflection sync
// in the background; the response never waits for the sync.
func (h *SummaryHandler) Generate(c *gin.Context) {
	var req model.GenerateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required"})
		return
	}
	if !dateRE.MatchString(req.Date) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	logger.Info("summary.generate", "uid", uid, "date", req.Date)

	result, err := h.summaries.GenerateForDate(c.Request.Context(), uid, req.Date)
	if err != nil {
		writeServiceError(c, "summary.generate_failed", err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No journal entries found for this date"})
		return
	}

	go h.sync.SyncForDate(context.Background(), uid, req.Date)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"summary":    result.Summary,
		"entryCount": result.EntryCount,
		"summaryId":  result.SummaryID,
	})
}
