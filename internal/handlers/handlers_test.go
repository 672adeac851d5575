package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/middleware"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply string
	calls atomic.Int32
}

func (p *stubProvider) Name() string {
	return "anthropic"
}

func (p *stubProvider) DefaultModel() string {
	return "claude-3-haiku-20240307"
}

func (p *stubProvider) Supports(model string) bool {
	return strings.HasPrefix(model, "claude")
}

func (p *stubProvider) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	p.calls.Add(1)
	return p.reply, nil
}

type testEnv struct {
	router   *gin.Engine
	github   *http.ServeMux
	provider *stubProvider
}

// newTestEnv wires the handlers against a fake GitHub API. signedIn attaches a
// session carrying a token to every request.
func newTestEnv(t *testing.T, signedIn bool, providers ...services.ChatProvider) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, config.Load())

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	githubRepoService, err := services.NewGitHubRepositoryService(server.URL, "")
	require.NoError(t, err)

	provider := &stubProvider{reply: "Tweet: Ouch.\nDeep roast: Double ouch."}
	if providers == nil {
		providers = []services.ChatProvider{provider}
	}
	llmService := services.NewLLMService(providers...)
	roastService := services.NewRoastService(githubRepoService, llmService, services.NewRoastCache(time.Minute))

	repositoryHandler := NewRepositoryHandler(githubRepoService)
	changelogHandler := NewChangelogHandler(githubRepoService, services.NewChangelogExportService())
	roastHandler := NewRoastHandler(roastService)
	summaryHandler := NewSummaryHandler(services.NewSummaryService(llmService))
	shareHandler := NewShareHandler(services.NewShareService())

	router := gin.New()
	router.Use(middleware.Recovery())
	if signedIn {
		router.Use(func(c *gin.Context) {
			_ = middleware.SetSession(c, &models.Session{
				ID:          "test-session",
				Login:       "octocat",
				AccessToken: "gho_user",
				ExpiresAt:   time.Now().Add(time.Hour),
			})
			c.Next()
		})
	}

	api := router.Group("/api")
	api.POST("/roast", roastHandler.Roast)
	api.POST("/summary", summaryHandler.Summarize)
	api.POST("/share", shareHandler.Share)

	protected := api.Group("")
	protected.Use(middleware.APIAuthRequired())
	protected.GET("/repositories", repositoryHandler.ListRepositories)
	protected.GET("/search-repo", repositoryHandler.SearchRepository)
	protected.GET("/changelog", changelogHandler.Changelog)
	protected.GET("/changelog/export", changelogHandler.Export)

	return &testEnv{router: router, github: mux, provider: provider}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRepositoriesRequireAuth(t *testing.T) {
	env := newTestEnv(t, false)

	for _, path := range []string{"/api/repositories", "/api/search-repo?owner=a&repo=b", "/api/changelog?owner=a&repo=b"} {
		w := env.do("GET", path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"error":"Not authenticated or missing access token"}`, w.Body.String())
	}
}

func TestListRepositories(t *testing.T) {
	env := newTestEnv(t, true)
	env.github.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 7, "name": "hello", "full_name": "octocat/hello", "private": false,
			"description": null, "html_url": "https://github.com/octocat/hello", "updated_at": "2024-05-01T10:00:00Z"}]`))
	})

	w := env.do("GET", "/api/repositories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var repos []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &repos))
	require.Len(t, repos, 1)
	assert.Equal(t, "octocat/hello", repos[0]["full_name"])
	assert.Nil(t, repos[0]["description"])
	assert.Equal(t, "https://github.com/octocat/hello", repos[0]["html_url"])
}

func TestSearchRepository(t *testing.T) {
	env := newTestEnv(t, true)
	env.github.HandleFunc("/repos/octocat/hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "name": "hello", "full_name": "octocat/hello"}`))
	})
	env.github.HandleFunc("/repos/octocat/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	env.github.HandleFunc("/repos/octocat/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "Server Error"}`))
	})

	t.Run("Missing params", func(t *testing.T) {
		w := env.do("GET", "/api/search-repo?owner=octocat", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Owner and repo parameters are required"}`, w.Body.String())
	})

	t.Run("Owner and repo", func(t *testing.T) {
		w := env.do("GET", "/api/search-repo?owner=octocat&repo=hello", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"full_name":"octocat/hello"`)
	})

	t.Run("Query", func(t *testing.T) {
		w := env.do("GET", "/api/search-repo?q=https://github.com/octocat/hello", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		w := env.do("GET", "/api/search-repo?owner=octocat&repo=missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Repository not found or not accessible"}`, w.Body.String())
	})

	t.Run("Upstream failure", func(t *testing.T) {
		w := env.do("GET", "/api/search-repo?owner=octocat&repo=broken", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch repository from GitHub","details":"Server Error"}`, w.Body.String())
	})
}

func TestChangelog(t *testing.T) {
	env := newTestEnv(t, true)
	env.github.HandleFunc("/repos/octocat/hello/commits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sha": "abc", "html_url": "https://github.com/octocat/hello/commit/abc",
			"commit": {"message": "Add login\n\nDetails", "author": {"date": "2024-03-05T12:00:00Z"}}}]`))
	})
	env.github.HandleFunc("/repos/octocat/private/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Resource not accessible"}`))
	})

	t.Run("Missing params", func(t *testing.T) {
		w := env.do("GET", "/api/changelog?repo=hello", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Repository owner and name are required"}`, w.Body.String())
	})

	t.Run("Entries", func(t *testing.T) {
		w := env.do("GET", "/api/changelog?owner=octocat&repo=hello", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"title":"Add login","date":"March 5, 2024",
			"repoLink":"https://github.com/octocat/hello/commit/abc","summary":"Add login\n\nDetails"}]`, w.Body.String())
	})

	t.Run("GitHub status is propagated", func(t *testing.T) {
		w := env.do("GET", "/api/changelog?owner=octocat&repo=private", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch commits from GitHub","details":"Resource not accessible"}`, w.Body.String())
	})

	t.Run("Export", func(t *testing.T) {
		w := env.do("GET", "/api/changelog/export?owner=octocat&repo=hello", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "octocat-hello-changelog.xlsx")
		assert.NotEmpty(t, w.Body.Bytes())
	})
}

func TestRoastValidation(t *testing.T) {
	env := newTestEnv(t, false)

	testCases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"Invalid JSON", `{"commitUrl":`, http.StatusBadRequest, "Invalid request body"},
		{"Missing URL", `{"ratingLevel":"PG"}`, http.StatusBadRequest, "A GitHub URL is required"},
		{"Bad rating", `{"commitUrl":"https://github.com/octocat","ratingLevel":"NC-17"}`, http.StatusBadRequest, "Invalid rating level. Must be one of: G, PG, R, Unhinged"},
		{"Missing rating", `{"commitUrl":"https://github.com/octocat"}`, http.StatusBadRequest, "Invalid rating level. Must be one of: G, PG, R, Unhinged"},
		{"Empty rating", `{"commitUrl":"https://github.com/octocat","ratingLevel":""}`, http.StatusBadRequest, "Invalid rating level. Must be one of: G, PG, R, Unhinged"},
		{"Unsupported URL", `{"commitUrl":"https://github.com/octocat/hello/issues/1","ratingLevel":"PG"}`, http.StatusBadRequest, services.ErrUnsupportedURL.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do("POST", "/api/roast", tc.body)
			assert.Equal(t, tc.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body["error"])
		})
	}
	assert.Equal(t, int32(0), env.provider.calls.Load())
}

func TestRoastWithoutProvider(t *testing.T) {
	// An empty, non-nil provider list means no AI key is configured
	env := newTestEnv(t, false, []services.ChatProvider{}...)

	w := env.do("POST", "/api/roast", `{"commitUrl":"https://github.com/octocat","ratingLevel":"PG"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"No AI API key configured"}`, w.Body.String())

	w = env.do("POST", "/api/summary", `{"commitHistory":"fix"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"No AI API key configured"}`, w.Body.String())
}

func TestRoast(t *testing.T) {
	env := newTestEnv(t, false)
	env.github.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	})
	env.github.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	body := `{"commitUrl":"https://github.com/octocat","ratingLevel":"Unhinged"}`

	w := env.do("POST", "/api/roast", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(cacheHeader))

	var first models.RoastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "Ouch.", first.Tweet)
	assert.Equal(t, "Double ouch.", first.DeepRoast)
	assert.Equal(t, models.RoastTypeProfile, first.Type)
	assert.Equal(t, "claude-3-haiku-20240307", first.Model)

	w = env.do("POST", "/api/roast", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(cacheHeader))

	var second models.RoastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), env.provider.calls.Load())
}

func TestRoastGitHubNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	env.github.HandleFunc("/repos/ghost/void", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	env.github.HandleFunc("/repos/ghost/void/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	w := env.do("POST", "/api/roast", `{"commitUrl":"https://github.com/ghost/void","ratingLevel":"PG"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate roast","details":"Not Found"}`, w.Body.String())
}

func TestQuickRoast(t *testing.T) {
	env := newTestEnv(t, false)
	env.provider.reply = "  Committing on a Friday, bold.  "

	w := env.do("POST", "/api/roast", `{"commitHistory":"fix: stuff"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"roast":"Committing on a Friday, bold."}`, w.Body.String())
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t, false)
	env.provider.reply = "🚀 Shipped it"

	for _, body := range []string{`{}`, `{"commitHistory": 42}`, `{"commitHistory": "  "}`, `not json`} {
		w := env.do("POST", "/api/summary", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Invalid commit history provided"}`, w.Body.String())
	}

	w := env.do("POST", "/api/summary", `{"commitHistory":"feat: ship it"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"🚀 Shipped it"}`, w.Body.String())
}

func TestShare(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do("POST", "/api/share", `{"repoName":"octocat/hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/api/share", `{"content":"x","type":"story"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Share type must be 'main' or 'commit'"}`, w.Body.String())

	w = env.do("POST", "/api/share", `{"content":"Your code has layers. Like an onion. It makes people cry.","repoName":"octocat/hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var link models.ShareLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.Contains(t, link.Text, "Repo: octocat/hello")
	assert.True(t, strings.HasPrefix(link.URL, "https://twitter.com/intent/tweet?text="))
}

func TestNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log(1)"), 0o644))

	router := gin.New()
	router.NoRoute(NewNotFoundHandler(staticDir).NotFound)

	serve := func(method, path string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := serve("GET", "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found","path":"/api/nope"}`, w.Body.String())

	w = serve("GET", "/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = serve("GET", "/changelog/octocat/hello")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = serve("GET", "/../../etc/passwd")
	assert.NotContains(t, w.Body.String(), "root:")
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	workerStatus := func() map[string]bool {
		return map[string]bool{"session-cleanup-1": true, "roast-cache-sweep-1": false}
	}
	router.GET("/health", NewHealthHandler(func() bool { return true }, workerStatus).Health)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ai_configured"])
	assert.Equal(t, map[string]any{"session-cleanup-1": true, "roast-cache-sweep-1": false}, body["workers"])
}
