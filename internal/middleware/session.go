package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/config"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

const (
	sessionCookieName = "session"
	sessionContextKey = "session"
)

// SessionData is the signed payload carried by the session cookie
type SessionData struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionMiddleware resolves the session cookie into a stored session. Successful
// responses slide the expiry forward and re-issue the cookie.
func SessionMiddleware(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData := getSessionFromCookie(c)
		if sessionData == nil {
			c.Next()
			return
		}

		session, err := sessionService.GetSession(sessionData.SessionID)
		if err != nil {
			logger.WithError(err).Warn("Failed to load session")
		}
		if session == nil {
			c.Next()
			return
		}

		c.Set(sessionContextKey, session)
		writer := &slidingSessionWriter{
			ResponseWriter: c.Writer,
			onCommit: func(status int) {
				if status < http.StatusOK || status >= http.StatusMultipleChoices {
					return
				}
				// Signed out during this request
				if GetSession(c) == nil {
					return
				}
				if err := sessionService.ExtendSession(session); err != nil {
					logger.WithError(err).Warn("Failed to extend session")
					return
				}
				if err := writeSessionCookie(c, session); err != nil {
					logger.WithError(err).Warn("Failed to refresh session cookie")
				}
			},
		}
		c.Writer = writer

		c.Next()

		// Bodyless responses are flushed by the engine after the chain returns
		writer.commit()
	}
}

// slidingSessionWriter runs onCommit right before the response header is sent
type slidingSessionWriter struct {
	gin.ResponseWriter
	onCommit  func(status int)
	committed bool
}

func (w *slidingSessionWriter) commit() {
	if w.committed || w.ResponseWriter.Written() {
		return
	}
	w.committed = true
	w.onCommit(w.ResponseWriter.Status())
}

func (w *slidingSessionWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *slidingSessionWriter) Write(data []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(data)
}

func (w *slidingSessionWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// getSessionFromCookie extracts and validates session data from cookie
func getSessionFromCookie(c *gin.Context) *SessionData {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	// Split cookie value (signature.data)
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return nil
	}

	signature, data := parts[0], parts[1]

	if !verifySignature(data, signature) {
		return nil
	}

	decodedData, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	var sessionData SessionData
	if err := json.Unmarshal(decodedData, &sessionData); err != nil {
		return nil
	}

	if time.Now().After(sessionData.ExpiresAt) {
		return nil
	}

	return &sessionData
}

// SetSession issues the cookie for a newly created session
func SetSession(c *gin.Context, session *models.Session) error {
	if err := writeSessionCookie(c, session); err != nil {
		return err
	}
	c.Set(sessionContextKey, session)
	return nil
}

func writeSessionCookie(c *gin.Context, session *models.Session) error {
	sessionData := SessionData{
		SessionID: session.ID,
		Username:  session.Login,
		ExpiresAt: session.ExpiresAt,
	}

	data, err := json.Marshal(sessionData)
	if err != nil {
		return err
	}

	encodedData := base64.URLEncoding.EncodeToString(data)
	signature := createSignature(encodedData)

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, signature+"."+encodedData, maxAge, "/", "", c.Request.TLS != nil, true)

	return nil
}

// ClearSession removes the session cookie
func ClearSession(c *gin.Context) {
	c.Set(sessionContextKey, nil)
	c.SetCookie(sessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}

// createSignature creates HMAC signature for data
func createSignature(data string) string {
	h := hmac.New(sha256.New, []byte(config.AppConfig.Session.Secret))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies HMAC signature
func verifySignature(data, signature string) bool {
	expectedSignature := createSignature(data)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// GetSession retrieves the current session from context
func GetSession(c *gin.Context) *models.Session {
	session, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}

	if s, ok := session.(*models.Session); ok {
		return s
	}

	return nil
}
