package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wchwawa/journal-app-mvp/internal/logger"
	"github.com/wchwawa/journal-app-mvp/internal/model"
	"github.com/wchwawa/journal-app-mvp/internal/service"
)

const searchSystemPrompt = `You are a concise research aide. Always call the web_search tool first and return JSON with an array named results (title,url,snippet). Limit to top three items.`

type AgentHandler struct {
	contexts *service.AgentContextService
	quota    *service.SearchQuota
	search   service.WebSearcher
}

func NewAgentHandler(contexts *service.AgentContextService, quota *service.SearchQuota, search service.WebSearcher) *AgentHandler {
	return &AgentHandler{contexts: contexts, quota: quota, search: search}
}

// POST /api/agent/tools/context
func (h *AgentHandler) Context(c *gin.Context) {
	var req model.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
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

	result, err := h.contexts.Fetch(c.Request.Context(), uid, req)
	if err != nil {
		writeServiceError(c, "agent.context_failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/agent/tools/search  body: {"query":"..."}
//
// Soft-limited to MaxSearchesPerDay per user per local day.
func (h *AgentHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
		return
	}
	if n := len([]rune(req.Query)); n < 4 || n > 200 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "query must be 4-200 characters"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	allowed, _ := h.quota.CanUse(uid.String())
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily search limit reached", "remaining": 0})
		return
	}

	rawText, err := h.search.WebSearch(c.Request.Context(), searchSystemPrompt, req.Query)
	if err != nil {
		logger.Error("agent.search_failed", "uid", uid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run search"})
		return
	}

	remaining := h.quota.Record(uid.String())

	var parsed struct {
		Results []model.SearchResult `json:"results"`
	}
	if json.Unmarshal([]byte(rawText), &parsed) != nil || parsed.Results == nil {
		c.JSON(http.StatusOK, gin.H{
			"results":   []model.SearchResult{},
			"remaining": remaining,
			"note":      "Search completed but response format was unexpected.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": parsed.Results, "remaining": remaining})
}
