package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
)

type ShareHandler struct {
	shareService *services.ShareService
}

func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
	}
}

// Share builds the post text and intent link for a roast
func (h *ShareHandler) Share(c *gin.Context) {
	var roast models.ShareableRoast
	if err := c.ShouldBindJSON(&roast); err != nil {
		respondError(c, http.StatusBadRequest, "Roast content is required", err)
		return
	}

	if err := roast.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err, "Invalid share request"), err)
		return
	}

	c.JSON(http.StatusOK, h.shareService.ShareLink(&roast))
}
