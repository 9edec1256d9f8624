package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/service"
)

type JournalHandler struct {
	journals *service.JournalService
	sync     *service.SyncService
}

func NewJournalHandler(journals *service.JournalService, sync *service.SyncService) *JournalHandler {
	return &JournalHandler{journals: journals, sync: sync}
}

// POST /api/journals/list  body: {"startDate":"...","endDate":"...","page":1,"limit":10}
func (h *JournalHandler) List(c *gin.Context) {
	var req model.ListJournalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = model.ListJournalsRequest{}
	}
	if req.StartDate != "" && !dateRE.MatchString(req.StartDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid startDate"})
		return
	}
	if req.EndDate != "" && !dateRE.MatchString(req.EndDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid endDate"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := h.journals.List(c.Request.Context(), uid, req)
	if err != nil {
		writeServiceError(c, "journal.list_failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PUT /api/journals/:id  body: {"rephrasedText":"..."}
//
// Edits an entry's rephrased text, then resyncs reflections for the entry's
// local day in the background.
func (h *JournalHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req model.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rephrased text is required"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	logger.Info("journal.update", "uid", uid, "id", entryID)

	entry, date, err := h.journals.UpdateRephrased(c.Request.Context(), uid, entryID, req.RephrasedText)
	if err != nil {
		writeServiceError(c, "journal.update_failed", err)
		return
	}

	go h.sync.SyncForDate(context.Background(), uid, date)

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
}
