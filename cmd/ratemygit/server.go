package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/handlers"
	"github.com/ratemygit/ratemygit/internal/middleware"
	"github.com/ratemygit/ratemygit/internal/repositories"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/internal/workers"
	"github.com/ratemygit/ratemygit/pkg/config"
	"github.com/ratemygit/ratemygit/pkg/database"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context) error {
	cfg := config.AppConfig
	log := logger.Component("server")

	gin.SetMode(cfg.Server.Mode)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		log.Warn("SESSION_SECRET is not set, using the development default")
	}

	if err := database.Init(cfg.Session.DBPath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	// Initialize dependencies
	sessionRepo := repositories.NewSessionRepository(database.DB)
	sessionService := services.NewSessionService(sessionRepo, cfg.SessionTTL())
	githubService := services.NewGitHubService()
	githubRepoService, err := services.NewGitHubRepositoryService(cfg.GitHub.APIURL, cfg.GitHub.Token)
	if err != nil {
		return err
	}
	llmService := services.NewLLMServiceFromConfig(cfg.LLM)
	if !llmService.HasProvider() {
		log.Warn("No AI API key configured, roasts and summaries will fail")
	}
	roastCache := services.NewRoastCache(cfg.RoastCacheTTL())
	roastService := services.NewRoastService(githubRepoService, llmService, roastCache)

	// Initialize worker manager
	sweepInterval := time.Duration(cfg.Session.SweepInterval) * time.Minute
	workerManager := workers.NewWorkerManager(
		workers.NewSessionCleanupWorker("session-cleanup-1", sweepInterval, sessionService),
		workers.NewRoastCacheSweepWorker("roast-cache-sweep-1", cfg.RoastCacheTTL(), roastCache),
	)

	router := newRouter(routerDeps{
		sessionService:    sessionService,
		githubService:     githubService,
		githubRepoService: githubRepoService,
		llmService:        llmService,
		roastService:      roastService,
		summaryService:    services.NewSummaryService(llmService),
		shareService:      services.NewShareService(),
		exportService:     services.NewChangelogExportService(),
		workerStatus:      workerManager.GetWorkerStatus,
		staticDir:         cfg.Server.StaticDir,
	})

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer workerManager.StopAll()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

type routerDeps struct {
	sessionService    *services.SessionService
	githubService     *services.GitHubService
	githubRepoService *services.GitHubRepositoryService
	llmService        *services.LLMService
	roastService      *services.RoastService
	summaryService    *services.SummaryService
	shareService      *services.ShareService
	exportService     *services.ChangelogExportService
	workerStatus      func() map[string]bool
	staticDir         string
}

func newRouter(deps routerDeps) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SessionMiddleware(deps.sessionService))

	setupRoutes(router, deps)
	return router
}

func setupRoutes(router *gin.Engine, deps routerDeps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.githubService, deps.sessionService)
	repositoryHandler := handlers.NewRepositoryHandler(deps.githubRepoService)
	changelogHandler := handlers.NewChangelogHandler(deps.githubRepoService, deps.exportService)
	roastHandler := handlers.NewRoastHandler(deps.roastService)
	summaryHandler := handlers.NewSummaryHandler(deps.summaryService)
	shareHandler := handlers.NewShareHandler(deps.shareService)
	healthHandler := handlers.NewHealthHandler(deps.llmService.HasProvider, deps.workerStatus)
	notFoundHandler := handlers.NewNotFoundHandler(deps.staticDir)

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.GET("/signin", authHandler.Signin)
			auth.GET("/callback/github", authHandler.Callback)
			auth.GET("/session", authHandler.Session)
			auth.POST("/signout", authHandler.Signout)
		}

		api.POST("/roast", roastHandler.Roast)
		api.POST("/summary", summaryHandler.Summarize)
		api.POST("/share", shareHandler.Share)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.APIAuthRequired())
		{
			protected.GET("/repositories", repositoryHandler.ListRepositories)
			protected.GET("/search-repo", repositoryHandler.SearchRepository)
			protected.GET("/changelog", changelogHandler.Changelog)
			protected.GET("/changelog/export", changelogHandler.Export)
		}
	}

	// UI build and unknown paths
	router.NoRoute(notFoundHandler.NotFound)
}
