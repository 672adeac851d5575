package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ratemygit/ratemygit/internal/models"
)

// ClassifyURL decides whether a GitHub URL points at a profile, a repository or a commit.
// One path segment is a profile, two a repository, and four or more with "commit" third
// a commit. Anything else fails with ErrUnsupportedURL.
func ClassifyURL(raw string) (models.RoastTarget, error) {
	segments, err := githubPathSegments(raw)
	if err != nil {
		return models.RoastTarget{}, err
	}

	switch {
	case len(segments) == 1:
		return models.RoastTarget{Type: models.RoastTypeProfile, Owner: segments[0]}, nil
	case len(segments) == 2:
		return models.RoastTarget{
			Type:  models.RoastTypeRepository,
			Owner: segments[0],
			Repo:  strings.TrimSuffix(segments[1], ".git"),
		}, nil
	case len(segments) >= 4 && segments[2] == "commit":
		return models.RoastTarget{
			Type:  models.RoastTypeCommit,
			Owner: segments[0],
			Repo:  segments[1],
			SHA:   segments[3],
		}, nil
	}

	return models.RoastTarget{}, ErrUnsupportedURL
}

// ParseRepositoryQuery accepts "owner/repo" or a GitHub repository URL
func ParseRepositoryQuery(query string) (string, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "", fmt.Errorf("repository query is empty")
	}

	if !strings.Contains(query, "github.com") {
		owner, repo, ok := strings.Cut(strings.Trim(query, "/"), "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return "", "", fmt.Errorf("invalid repository format %q, use owner/repo or a GitHub URL", query)
		}
		return owner, strings.TrimSuffix(repo, ".git"), nil
	}

	segments, err := githubPathSegments(query)
	if err != nil || len(segments) < 2 {
		return "", "", fmt.Errorf("invalid repository URL %q", query)
	}
	return segments[0], strings.TrimSuffix(segments[1], ".git"), nil
}

func githubPathSegments(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnsupportedURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrUnsupportedURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return nil, ErrUnsupportedURL
	}

	var segments []string
	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return nil, ErrUnsupportedURL
	}

	return segments, nil
}
