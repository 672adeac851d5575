package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/middleware"
	"github.com/ratemygit/ratemygit/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ChangelogHandler struct {
	githubRepoService *services.GitHubRepositoryService
	exportService     *services.ChangelogExportService
}

func NewChangelogHandler(githubRepoService *services.GitHubRepositoryService, exportService *services.ChangelogExportService) *ChangelogHandler {
	return &ChangelogHandler{
		githubRepoService: githubRepoService,
		exportService:     exportService,
	}
}

// Changelog returns the latest commits of a repository as changelog entries
func (h *ChangelogHandler) Changelog(c *gin.Context) {
	session := middleware.GetSession(c)

	owner := strings.TrimSpace(c.Query("owner"))
	repo := strings.TrimSpace(c.Query("repo"))
	if owner == "" || repo == "" {
		respondError(c, http.StatusBadRequest, "Repository owner and name are required", nil)
		return
	}

	entries, err := h.githubRepoService.ListChangelog(c.Request.Context(), session.AccessToken, owner, repo)
	if err != nil {
		respondUpstreamError(c, "Failed to fetch commits from GitHub", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Export returns the changelog as an Excel workbook
func (h *ChangelogHandler) Export(c *gin.Context) {
	session := middleware.GetSession(c)

	owner := strings.TrimSpace(c.Query("owner"))
	repo := strings.TrimSpace(c.Query("repo"))
	if owner == "" || repo == "" {
		respondError(c, http.StatusBadRequest, "Repository owner and name are required", nil)
		return
	}

	entries, err := h.githubRepoService.ListChangelog(c.Request.Context(), session.AccessToken, owner, repo)
	if err != nil {
		respondUpstreamError(c, "Failed to fetch commits from GitHub", err)
		return
	}

	fullName := owner + "/" + repo
	buf, err := h.exportService.ExportXLSX(fullName, entries)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to export changelog", err)
		return
	}

	filename := fmt.Sprintf("%s-%s-changelog.xlsx", owner, repo)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
