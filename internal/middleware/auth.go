package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotAuthenticatedMessage is returned by every endpoint that needs a GitHub token
const NotAuthenticatedMessage = "Not authenticated or missing access token"

// APIAuthRequired rejects requests without a session carrying a GitHub access token
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)

		if session == nil || session.AccessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": NotAuthenticatedMessage,
			})
			return
		}

		c.Next()
	}
}
