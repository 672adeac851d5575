package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	profileRepositoryLimit = 5
	repositoryCommitLimit  = 10
)

// RoastDataSource is the public GitHub data a roast is built from
type RoastDataSource interface {
	GetCommitPatch(ctx context.Context, owner, repo, sha string) (string, error)
	GetProfile(ctx context.Context, username string) (*github.User, error)
	ListRecentRepositories(ctx context.Context, username string, limit int) ([]*github.Repository, error)
	GetRepositoryDetails(ctx context.Context, owner, repo string) (*github.Repository, error)
	ListRecentCommits(ctx context.Context, owner, repo string, limit int) ([]*github.RepositoryCommit, error)
}

type RoastService struct {
	source RoastDataSource
	llm    *LLMService
	cache  *RoastCache
	pick   func(n int) int
}

func NewRoastService(source RoastDataSource, llm *LLMService, cache *RoastCache) *RoastService {
	return &RoastService{
		source: source,
		llm:    llm,
		cache:  cache,
		pick:   randomPick,
	}
}

// Roast generates a two-part roast for the GitHub URL in req. The boolean result
// reports whether the response came from the cache.
func (s *RoastService) Roast(ctx context.Context, req *models.RoastRequest) (*models.RoastResponse, bool, error) {
	target, err := ClassifyURL(req.CommitURL)
	if err != nil {
		return nil, false, err
	}

	key := RoastCacheKey(target.ResourceID(), req.RatingLevel, req.Model)
	if cached, ok := s.cache.Get(key); ok {
		return cached, true, nil
	}

	if !s.llm.HasProvider() {
		return nil, false, ErrNoProvider
	}

	start := time.Now()

	prompt, err := s.buildPrompt(ctx, target, req)
	if err != nil {
		return nil, false, err
	}

	completion, err := s.llm.Generate(ctx, req.Model, CompletionRequest{
		System:      roastSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   600,
		Temperature: 0.9,
	})
	if err != nil {
		return nil, false, err
	}

	tweet, deepRoast := ParseRoastOutput(completion.Text)
	if tweet == "" {
		return nil, false, &UpstreamError{Service: completion.Provider, Message: "model returned an empty roast"}
	}

	response := &models.RoastResponse{
		Tweet:      tweet,
		DeepRoast:  deepRoast,
		Model:      completion.Model,
		DurationMs: time.Since(start).Milliseconds(),
		Type:       target.Type,
	}
	s.cache.Set(key, response)

	logger.Component("roast").WithFields(logrus.Fields{
		"resource":    target.ResourceID(),
		"rating":      req.RatingLevel,
		"model":       completion.Model,
		"duration_ms": response.DurationMs,
	}).Info("Generated roast")

	return response, false, nil
}

// QuickRoast roasts a short commit history in one or two sentences
func (s *RoastService) QuickRoast(ctx context.Context, commitHistory string) (string, error) {
	completion, err := s.llm.Generate(ctx, "", CompletionRequest{
		Prompt:      renderQuickRoastPrompt(commitHistory, s.pick),
		MaxTokens:   150,
		Temperature: 1.0,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Text), nil
}

func (s *RoastService) buildPrompt(ctx context.Context, target models.RoastTarget, req *models.RoastRequest) (string, error) {
	switch target.Type {
	case models.RoastTypeCommit:
		return s.buildCommitPrompt(ctx, target, req)
	case models.RoastTypeRepository:
		return s.buildRepositoryPrompt(ctx, target, req)
	default:
		return s.buildProfilePrompt(ctx, target, req)
	}
}

func (s *RoastService) buildCommitPrompt(ctx context.Context, target models.RoastTarget, req *models.RoastRequest) (string, error) {
	username := req.Username
	if username == "" {
		username = target.Owner
	}

	var patch string
	var profile *github.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patch, err = s.source.GetCommitPatch(gctx, target.Owner, target.Repo, target.SHA)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.source.GetProfile(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return renderRoastPrompt(models.RoastTypeCommit, req.RatingLevel, roastPromptData{
		Owner:    target.Owner,
		Repo:     target.Repo,
		Username: username,
		Profile:  describeProfile(profile),
		Patch:    TruncatePatch(patch),
	})
}

func (s *RoastService) buildProfilePrompt(ctx context.Context, target models.RoastTarget, req *models.RoastRequest) (string, error) {
	var profile *github.User
	var repos []*github.Repository

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.source.GetProfile(gctx, target.Owner)
		return err
	})
	g.Go(func() error {
		var err error
		repos, err = s.source.ListRecentRepositories(gctx, target.Owner, profileRepositoryLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		lines = append(lines, describeRepositoryLine(repo))
	}

	return renderRoastPrompt(models.RoastTypeProfile, req.RatingLevel, roastPromptData{
		Owner:        target.Owner,
		Username:     target.Owner,
		Profile:      describeProfile(profile),
		Repositories: lines,
	})
}

func (s *RoastService) buildRepositoryPrompt(ctx context.Context, target models.RoastTarget, req *models.RoastRequest) (string, error) {
	var repo *github.Repository
	var commits []*github.RepositoryCommit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repo, err = s.source.GetRepositoryDetails(gctx, target.Owner, target.Repo)
		return err
	})
	g.Go(func() error {
		var err error
		commits, err = s.source.ListRecentCommits(gctx, target.Owner, target.Repo, repositoryCommitLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(commits))
	for _, commit := range commits {
		lines = append(lines, describeCommitLine(commit))
	}

	return renderRoastPrompt(models.RoastTypeRepository, req.RatingLevel, roastPromptData{
		Owner:      target.Owner,
		Repo:       target.Repo,
		Repository: describeRepository(repo),
		Commits:    lines,
	})
}
