package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	startedAt time.Time
	providers func() bool
	workers   func() map[string]bool
}

// NewHealthHandler reports liveness; hasProvider tells whether roasts can be generated
// and workerStatus maps each background worker to whether it is running
func NewHealthHandler(hasProvider func() bool, workerStatus func() map[string]bool) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
		providers: hasProvider,
		workers:   workerStatus,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"ai_configured":  h.providers(),
		"workers":        h.workers(),
	})
}
