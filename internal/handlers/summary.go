package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/services"
)

type summaryRequest struct {
	CommitHistory any `json:"commitHistory"`
}

type SummaryHandler struct {
	summaryService *services.SummaryService
}

func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// Summarize turns a commit history into a short changelog summary
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid commit history provided", err)
		return
	}

	history, ok := req.CommitHistory.(string)
	if !ok || strings.TrimSpace(history) == "" {
		respondError(c, http.StatusBadRequest, "Invalid commit history provided", nil)
		return
	}

	summary, err := h.summaryService.Summarize(c.Request.Context(), history)
	if err != nil {
		if errors.Is(err, services.ErrNoProvider) {
			respondError(c, http.StatusInternalServerError, noProviderMessage, err)
			return
		}
		respondUpstreamError(c, "Failed to generate summary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
