package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/middleware"
	"github.com/ratemygit/ratemygit/internal/services"
)

type RepositoryHandler struct {
	githubRepoService *services.GitHubRepositoryService
}

func NewRepositoryHandler(githubRepoService *services.GitHubRepositoryService) *RepositoryHandler {
	return &RepositoryHandler{
		githubRepoService: githubRepoService,
	}
}

// ListRepositories returns the repositories of the signed-in user
func (h *RepositoryHandler) ListRepositories(c *gin.Context) {
	session := middleware.GetSession(c)

	repos, err := h.githubRepoService.ListUserRepositories(c.Request.Context(), session.AccessToken)
	if err != nil {
		respondUpstreamError(c, "Failed to fetch repositories from GitHub", err)
		return
	}

	c.JSON(http.StatusOK, repos)
}

// SearchRepository looks up one repository by owner and repo, or by q=owner/repo
func (h *RepositoryHandler) SearchRepository(c *gin.Context) {
	session := middleware.GetSession(c)

	owner, repo, ok := repositoryParams(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Owner and repo parameters are required", nil)
		return
	}

	summary, err := h.githubRepoService.GetRepository(c.Request.Context(), session.AccessToken, owner, repo)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) && upstream.IsNotFound() {
			respondError(c, http.StatusNotFound, "Repository not found or not accessible", err)
			return
		}
		respondUpstreamError(c, "Failed to fetch repository from GitHub", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// repositoryParams reads owner and repo from the query, falling back to q
func repositoryParams(c *gin.Context) (string, string, bool) {
	owner := strings.TrimSpace(c.Query("owner"))
	repo := strings.TrimSpace(c.Query("repo"))
	if owner != "" && repo != "" {
		return owner, repo, true
	}

	if q := c.Query("q"); q != "" {
		owner, repo, err := services.ParseRepositoryQuery(q)
		if err == nil {
			return owner, repo, true
		}
	}

	return "", "", false
}
