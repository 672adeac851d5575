package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/go-github/v57/github"
)

// fakeProvider is a ChatProvider whose answers are scripted by the test
type fakeProvider struct {
	name         string
	defaultModel string
	prefix       string
	reply        string
	err          error

	calls atomic.Int32
	mu    sync.Mutex
	last  CompletionRequest
}

func (p *fakeProvider) Name() string {
	return p.name
}

func (p *fakeProvider) DefaultModel() string {
	return p.defaultModel
}

func (p *fakeProvider) Supports(model string) bool {
	return hasAnyPrefix(model, p.prefix)
}

func (p *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.last = req
	p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) lastRequest() CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func newClaude(reply string) *fakeProvider {
	return &fakeProvider{name: "anthropic", defaultModel: "claude-3-haiku-20240307", prefix: "claude", reply: reply}
}

func newGPT(reply string) *fakeProvider {
	return &fakeProvider{name: "openai", defaultModel: "gpt-3.5-turbo", prefix: "gpt", reply: reply}
}

// fakeSource serves canned GitHub data and counts every call
type fakeSource struct {
	patch   string
	profile *github.User
	repos   []*github.Repository
	repo    *github.Repository
	commits []*github.RepositoryCommit
	err     error

	calls atomic.Int32
}

func (s *fakeSource) GetCommitPatch(ctx context.Context, owner, repo, sha string) (string, error) {
	s.calls.Add(1)
	return s.patch, s.err
}

func (s *fakeSource) GetProfile(ctx context.Context, username string) (*github.User, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.profile == nil {
		return &github.User{Login: github.String(username)}, nil
	}
	return s.profile, nil
}

func (s *fakeSource) ListRecentRepositories(ctx context.Context, username string, limit int) ([]*github.Repository, error) {
	s.calls.Add(1)
	return s.repos, s.err
}

func (s *fakeSource) GetRepositoryDetails(ctx context.Context, owner, repo string) (*github.Repository, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.repo == nil {
		return &github.Repository{FullName: github.String(owner + "/" + repo)}, nil
	}
	return s.repo, nil
}

func (s *fakeSource) ListRecentCommits(ctx context.Context, owner, repo string, limit int) ([]*github.RepositoryCommit, error) {
	s.calls.Add(1)
	return s.commits, s.err
}

var errBoom = errors.New("boom")
