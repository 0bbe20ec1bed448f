package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-auth/internal/session"
	"chat-auth/internal/store"
)

// RequireSession guards routes behind the session cookie. On success the
// full user record is stored in the gin context under "user".
func RequireSession(secret []byte, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authorization required"})
			return
		}
		userID, err := session.Parse(cookie, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid session"})
			return
		}
		user, err := st.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid session"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}
