package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
)

var (
	// ErrNoProvider means neither LLM API key is configured
	ErrNoProvider = errors.New("no AI API key configured")

	// ErrUnsupportedURL means a URL is not a GitHub profile, repository or commit
	ErrUnsupportedURL = errors.New("unsupported GitHub URL: expected a profile, repository or commit link")
)

// UpstreamError is a failed call to GitHub or an LLM provider
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status a handler should answer with
func (e *UpstreamError) HTTPStatus() int {
	if e.Service == "github" && e.StatusCode >= 400 && e.StatusCode < 600 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether the upstream answered 404
func (e *UpstreamError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// wrapGitHubError turns a go-github error into an UpstreamError
func wrapGitHubError(err error) error {
	if err == nil {
		return nil
	}

	upstream := &UpstreamError{Service: "github", Message: err.Error(), Err: err}

	var ghErr *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		upstream.Message = rateErr.Message
		if rateErr.Response != nil {
			upstream.StatusCode = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		upstream.Message = abuseErr.Message
		if abuseErr.Response != nil {
			upstream.StatusCode = abuseErr.Response.StatusCode
		}
	case errors.As(err, &ghErr):
		upstream.Message = ghErr.Message
		if ghErr.Response != nil {
			upstream.StatusCode = ghErr.Response.StatusCode
		}
	}

	if upstream.Message == "" {
		upstream.Message = err.Error()
	}

	return upstream
}
