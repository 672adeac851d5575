package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ratemygit/ratemygit/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create stores a new session
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (id, github_id, login, name, email, avatar_url, access_token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		session.ID,
		session.GitHubID,
		session.Login,
		session.Name,
		session.Email,
		session.AvatarURL,
		session.AccessToken,
		session.CreatedAt.UTC(),
		session.ExpiresAt.UTC(),
	)
	return err
}

// GetByID retrieves a session by ID, returning nil when it does not exist
func (r *SessionRepository) GetByID(id string) (*models.Session, error) {
	query := `
		SELECT id, github_id, login, name, email, avatar_url, access_token, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var session models.Session
	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.GitHubID,
		&session.Login,
		&session.Name,
		&session.Email,
		&session.AvatarURL,
		&session.AccessToken,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// UpdateExpiry moves the expiry of a session
func (r *SessionRepository) UpdateExpiry(id string, expiresAt time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, expiresAt.UTC(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpired removes every session that expired before now
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Count returns the number of stored sessions
func (r *SessionRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}
