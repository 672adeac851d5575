package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ratemygit/ratemygit/internal/models"
	"golang.org/x/oauth2"
)

const (
	repositoryPageSize = 100
	changelogPageSize  = 20
)

type GitHubRepositoryService struct {
	baseURL     *url.URL
	publicToken string
	httpClient  *http.Client
}

// NewGitHubRepositoryService creates the GitHub REST access layer.
// apiURL overrides https://api.github.com/ and publicToken authenticates the public
// lookups made for roasts; both may be empty.
func NewGitHubRepositoryService(apiURL, publicToken string) (*GitHubRepositoryService, error) {
	s := &GitHubRepositoryService{publicToken: publicToken}
	if apiURL != "" {
		baseURL, err := parseAPIURL(apiURL)
		if err != nil {
			return nil, err
		}
		s.baseURL = baseURL
	}
	return s, nil
}

func parseAPIURL(apiURL string) (*url.URL, error) {
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}
	return baseURL, nil
}

// createGitHubClient creates a GitHub client with the provided token, or an
// unauthenticated one when the token is empty
func (s *GitHubRepositoryService) createGitHubClient(ctx context.Context, token string) *github.Client {
	httpClient := s.httpClient
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	if s.baseURL != nil {
		client.BaseURL = s.baseURL
	}
	return client
}

// ListUserRepositories lists the repositories the signed-in user can access, most
// recently updated first
func (s *GitHubRepositoryService) ListUserRepositories(ctx context.Context, token string) ([]models.RepositorySummary, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	opt := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: repositoryPageSize},
	}

	repos, _, err := s.createGitHubClient(ctx, token).Repositories.List(ctx, "", opt)
	if err != nil {
		return nil, wrapGitHubError(err)
	}

	summaries := make([]models.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		summaries = append(summaries, toRepositorySummary(repo))
	}
	return summaries, nil
}

// GetRepository fetches a single repository as the signed-in user
func (s *GitHubRepositoryService) GetRepository(ctx context.Context, token, owner, name string) (*models.RepositorySummary, error) {
	repo, _, err := s.createGitHubClient(ctx, token).Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, wrapGitHubError(err)
	}

	summary := toRepositorySummary(repo)
	return &summary, nil
}

// ListChangelog turns the most recent commits of a repository into changelog entries
func (s *GitHubRepositoryService) ListChangelog(ctx context.Context, token, owner, name string) ([]models.ChangelogEntry, error) {
	opt := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: changelogPageSize},
	}

	commits, _, err := s.createGitHubClient(ctx, token).Repositories.ListCommits(ctx, owner, name, opt)
	if err != nil {
		return nil, wrapGitHubError(err)
	}

	entries := make([]models.ChangelogEntry, 0, len(commits))
	for _, commit := range commits {
		entries = append(entries, toChangelogEntry(commit))
	}
	return entries, nil
}

// GetCommitPatch fetches the .patch text of a public commit
func (s *GitHubRepositoryService) GetCommitPatch(ctx context.Context, owner, repo, sha string) (string, error) {
	patch, _, err := s.createGitHubClient(ctx, s.publicToken).Repositories.GetCommitRaw(
		ctx, owner, repo, sha, github.RawOptions{Type: github.Patch},
	)
	if err != nil {
		return "", wrapGitHubError(err)
	}
	return patch, nil
}

// GetProfile fetches a public user or organization profile
func (s *GitHubRepositoryService) GetProfile(ctx context.Context, username string) (*github.User, error) {
	user, _, err := s.createGitHubClient(ctx, s.publicToken).Users.Get(ctx, username)
	if err != nil {
		return nil, wrapGitHubError(err)
	}
	return user, nil
}

// ListRecentRepositories lists the most recently pushed public repositories of a user
func (s *GitHubRepositoryService) ListRecentRepositories(ctx context.Context, username string, limit int) ([]*github.Repository, error) {
	opt := &github.RepositoryListOptions{
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	repos, _, err := s.createGitHubClient(ctx, s.publicToken).Repositories.List(ctx, username, opt)
	if err != nil {
		return nil, wrapGitHubError(err)
	}
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

// GetRepositoryDetails fetches the full public repository object
func (s *GitHubRepositoryService) GetRepositoryDetails(ctx context.Context, owner, repo string) (*github.Repository, error) {
	repository, _, err := s.createGitHubClient(ctx, s.publicToken).Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapGitHubError(err)
	}
	return repository, nil
}

// ListRecentCommits lists the latest commits of a public repository
func (s *GitHubRepositoryService) ListRecentCommits(ctx context.Context, owner, repo string, limit int) ([]*github.RepositoryCommit, error) {
	opt := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	}

	commits, _, err := s.createGitHubClient(ctx, s.publicToken).Repositories.ListCommits(ctx, owner, repo, opt)
	if err != nil {
		return nil, wrapGitHubError(err)
	}
	if len(commits) > limit {
		commits = commits[:limit]
	}
	return commits, nil
}

// toRepositorySummary reshapes a GitHub repository for the picker
func toRepositorySummary(repo *github.Repository) models.RepositorySummary {
	return models.RepositorySummary{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Private:     repo.GetPrivate(),
		Description: repo.Description,
		HTMLURL:     repo.GetHTMLURL(),
		UpdatedAt:   repo.GetUpdatedAt().Time,
	}
}

// toChangelogEntry derives a changelog entry from a commit: the first message line is
// the title and the whole message is the summary
func toChangelogEntry(commit *github.RepositoryCommit) models.ChangelogEntry {
	message := commit.GetCommit().GetMessage()
	title, _, _ := strings.Cut(message, "\n")

	var date string
	if when := commit.GetCommit().GetAuthor().GetDate(); !when.IsZero() {
		date = when.Format(models.ChangelogDateLayout)
	}

	return models.ChangelogEntry{
		Title:    strings.TrimSpace(title),
		Date:     date,
		RepoLink: commit.GetHTMLURL(),
		Summary:  message,
	}
}
