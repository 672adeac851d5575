package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/repositories"
)

type SessionService struct {
	sessionRepo *repositories.SessionRepository
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo *repositories.SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// CreateSession stores a session for a freshly signed-in user
func (s *SessionService) CreateSession(user *models.GitHubUser, accessToken string) (*models.Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	now := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:          uuid.NewString(),
		GitHubID:    user.ID,
		Login:       user.Login,
		Name:        user.Name,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession returns the live session with the given ID, or nil
func (s *SessionService) GetSession(id string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.IsExpired(s.now()) {
		return nil, nil
	}
	return session, nil
}

// ExtendSession pushes the expiry of a session one TTL into the future
func (s *SessionService) ExtendSession(session *models.Session) error {
	expiresAt := s.now().UTC().Truncate(time.Second).Add(s.ttl)
	if err := s.sessionRepo.UpdateExpiry(session.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	session.ExpiresAt = expiresAt
	return nil
}

// DeleteSession signs a session out
func (s *SessionService) DeleteSession(id string) error {
	return s.sessionRepo.Delete(id)
}

// PurgeExpired deletes every expired session and returns how many were removed
func (s *SessionService) PurgeExpired() (int64, error) {
	return s.sessionRepo.DeleteExpired(s.now())
}
