package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
)

const (
	cacheHeader        = "X-Cache"
	noProviderMessage  = "No AI API key configured"
	roastFailedMessage = "Failed to generate roast"
)

type RoastHandler struct {
	roastService *services.RoastService
}

func NewRoastHandler(roastService *services.RoastService) *RoastHandler {
	return &RoastHandler{
		roastService: roastService,
	}
}

// Roast generates a roast for a GitHub profile, repository or commit URL.
// A body carrying only commitHistory gets the quick one-line roast instead.
func (h *RoastHandler) Roast(c *gin.Context) {
	var req models.RoastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err, "Invalid roast request"), err)
		return
	}

	if req.IsQuick() {
		h.quickRoast(c, req.CommitHistory)
		return
	}

	response, cached, err := h.roastService.Roast(c.Request.Context(), &req)
	if err != nil {
		h.respondRoastError(c, err)
		return
	}

	if cached {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, response)
}

func (h *RoastHandler) quickRoast(c *gin.Context, commitHistory string) {
	roast, err := h.roastService.QuickRoast(c.Request.Context(), commitHistory)
	if err != nil {
		h.respondRoastError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roast": roast})
}

func (h *RoastHandler) respondRoastError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedURL):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrNoProvider):
		respondError(c, http.StatusInternalServerError, noProviderMessage, err)
	default:
		respondUpstreamError(c, roastFailedMessage, err)
	}
}
