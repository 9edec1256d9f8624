package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/service"
)

type ReflectionHandler struct {
	reflections *service.ReflectionService
}

func NewReflectionHandler(reflections *service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflections: reflections}
}

// POST /api/reflections/sync  body: {"mode":"daily","anchorDate":"2025-11-13"}
func (h *ReflectionHandler) Sync(c *gin.Context) {
	var req model.SyncReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}
	switch req.Mode {
	case model.ModeDaily, model.ModeWeekly, model.ModeMonthly:
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid mode"})
		return
	}
	if req.AnchorDate != "" && !dateRE.MatchString(req.AnchorDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid anchorDate"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	logger.Info("reflection.sync", "uid", uid, "mode", req.Mode, "anchor", req.AnchorDate)

	card, err := h.reflections.Generate(c.Request.Context(), uid, req.Mode, req.AnchorDate)
	if err != nil {
		writeServiceError(c, "reflection.sync_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "card": card})
}

// GET /api/reflections/daily?limit=30&start=2025-11-13
func (h *ReflectionHandler) ListDaily(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	start := c.Query("start")
	if start != "" && !dateRE.MatchString(start) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid start"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.MaxListedDaily)))

	cards, err := h.reflections.ListDaily(c.Request.Context(), uid, limit, start)
	if err != nil {
		writeServiceError(c, "reflection.list_daily_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// GET /api/reflections/weekly and /api/reflections/monthly
func (h *ReflectionHandler) ListPeriod(periodType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

		cards, err := h.reflections.ListPeriod(c.Request.Context(), uid, periodType, limit)
		if err != nil {
			writeServiceError(c, "reflection.list_period_failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cards": cards})
	}
}

// PATCH /api/reflections/daily/:date
func (h *ReflectionHandler) PatchDaily(c *gin.Context) {
	date := c.Param("date")
	if !dateRE.MatchString(date) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date"})
		return
	}
	var req model.PatchReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}
	if err := service.ValidatePatch(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	logger.Info("reflection.patch_daily", "uid", uid, "date", date)

	card, err := h.reflections.PatchDaily(c.Request.Context(), uid, date, req)
	if err != nil {
		writeServiceError(c, "reflection.patch_daily_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "card": card})
}

// PATCH /api/reflections/period/:id
func (h *ReflectionHandler) PatchPeriod(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
		return
	}
	var req model.PatchReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}
	if err := service.ValidatePatch(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	logger.Info("reflection.patch_period", "uid", uid, "id", recordID)

	card, err := h.reflections.PatchPeriod(c.Request.Context(), uid, recordID, req)
	if err != nil {
		writeServiceError(c, "reflection.patch_period_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "card": card})
}
