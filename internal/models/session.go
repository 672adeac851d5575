package models

import (
	"time"
)

// Session ties a signed-in GitHub user to the OAuth token issued for them
type Session struct {
	ID          string    `json:"id"`
	GitHubID    int64     `json:"github_id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionUser is the part of a session that is safe to hand to the browser
type SessionUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"image"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) User() SessionUser {
	return SessionUser{
		Login:     s.Login,
		Name:      s.Name,
		Email:     s.Email,
		AvatarURL: s.AvatarURL,
	}
}
