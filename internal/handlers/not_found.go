package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type NotFoundHandler struct {
	staticDir string
}

func NewNotFoundHandler(staticDir string) *NotFoundHandler {
	return &NotFoundHandler{staticDir: staticDir}
}

// NotFound answers unknown API paths with JSON and serves the UI for everything else
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/api" || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
			"path":  path,
		})
		return
	}

	if h.staticDir != "" {
		// Files from the UI build win over the SPA entry point
		candidate := filepath.Join(h.staticDir, filepath.Clean("/"+path))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}

		index := filepath.Join(h.staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "Not found",
		"path":  path,
	})
}
