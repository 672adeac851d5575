package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

// respondError writes {error} and records err on the context for the request logger
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": message})
}

// respondUpstreamError answers with the upstream status where one applies, adding
// the upstream message as details. Anything else is a bare 500.
func respondUpstreamError(c *gin.Context, message string, err error) {
	_ = c.Error(err)

	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		c.JSON(upstream.HTTPStatus(), gin.H{
			"error":   message,
			"details": upstream.Message,
		})
		return
	}

	// Internal errors stay in the log
	logger.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// validationMessage returns the message of a ValidationError, or fallback
func validationMessage(err error, fallback string) string {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return fallback
}
