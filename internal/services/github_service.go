package services

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/pkg/config"
	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

// OAuthScopes are the permissions requested at sign-in
var OAuthScopes = []string{
	"read:user",  // Read access to user profile data
	"user:email", // Access to user's email addresses
	"repo",       // Private repositories for the changelog
}

type GitHubService struct {
	oauthConfig *oauth2.Config
	apiURL      string
}

func NewGitHubService() *GitHubService {
	oauthConfig := &oauth2.Config{
		ClientID:     config.AppConfig.GitHub.ClientID,
		ClientSecret: config.AppConfig.GitHub.ClientSecret,
		RedirectURL:  config.AppConfig.GitHub.CallbackURL,
		Scopes:       OAuthScopes,
		Endpoint:     githubendpoint.Endpoint,
	}

	return &GitHubService{
		oauthConfig: oauthConfig,
		apiURL:      config.AppConfig.GitHub.APIURL,
	}
}

// GetAuthURL returns the GitHub OAuth authorization URL
func (s *GitHubService) GetAuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges authorization code for access token
func (s *GitHubService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// GetUserInfo retrieves the signed-in user from GitHub.
// Users with a private profile email fall back to their primary verified address.
func (s *GitHubService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*models.GitHubUser, error) {
	client := github.NewClient(s.oauthConfig.Client(ctx, token))
	if s.apiURL != "" {
		baseURL, err := parseAPIURL(s.apiURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}

	ghUser, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", wrapGitHubError(err))
	}

	user := &models.GitHubUser{
		ID:        ghUser.GetID(),
		Login:     ghUser.GetLogin(),
		Name:      ghUser.GetName(),
		Email:     ghUser.GetEmail(),
		AvatarURL: ghUser.GetAvatarURL(),
	}

	if user.Email == "" {
		emails, _, err := client.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
		if err == nil {
			for _, email := range emails {
				if email.GetPrimary() && email.GetVerified() {
					user.Email = email.GetEmail()
					break
				}
			}
		}
	}

	return user, nil
}
