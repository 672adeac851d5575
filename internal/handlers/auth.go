package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ratemygit/ratemygit/internal/middleware"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/logger"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = int(10 * time.Minute / time.Second)
)

type AuthHandler struct {
	githubService  *services.GitHubService
	sessionService *services.SessionService
}

func NewAuthHandler(githubService *services.GitHubService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{
		githubService:  githubService,
		sessionService: sessionService,
	}
}

// Signin initiates the GitHub OAuth flow
func (h *AuthHandler) Signin(c *gin.Context) {
	state := uuid.NewString()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", c.Request.TLS != nil, true)

	c.Redirect(http.StatusTemporaryRedirect, h.githubService.GetAuthURL(state))
}

// Callback handles the GitHub OAuth callback
func (h *AuthHandler) Callback(c *gin.Context) {
	log := logger.Component("auth")

	expectedState, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.Redirect(http.StatusFound, "/?error=invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/?error=no_code")
		return
	}

	token, err := h.githubService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		log.WithError(err).Warn("OAuth code exchange failed")
		c.Redirect(http.StatusFound, "/?error=token_exchange_failed")
		return
	}

	githubUser, err := h.githubService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		log.WithError(err).Warn("Failed to load GitHub user")
		c.Redirect(http.StatusFound, "/?error=user_info_failed")
		return
	}

	session, err := h.sessionService.CreateSession(githubUser, token.AccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to create session")
		c.Redirect(http.StatusFound, "/?error=session_creation_failed")
		return
	}

	if err := middleware.SetSession(c, session); err != nil {
		log.WithError(err).Error("Failed to set session cookie")
		c.Redirect(http.StatusFound, "/?error=session_creation_failed")
		return
	}

	log.WithField("login", session.Login).Info("User signed in")
	c.Redirect(http.StatusFound, "/")
}

// Session returns the signed-in user, or an empty object
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": session.User()})
}

// Signout deletes the session and clears the cookie
func (h *AuthHandler) Signout(c *gin.Context) {
	if session := middleware.GetSession(c); session != nil {
		if err := h.sessionService.DeleteSession(session.ID); err != nil {
			logger.Component("auth").WithError(err).Warn("Failed to delete session")
		}
	}

	middleware.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
