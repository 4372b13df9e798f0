package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "chat.userID"

// RequireUser resolves the caller's canonical user id at the boundary. The
// platform's auth layer (student/advisor session handling) terminates upstream
// and forwards the resolved identity in X-User-ID; the chat core never
// branches on profile role.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the canonical user id set by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
