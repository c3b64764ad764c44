package auth

import (
	"net/http"
	"strings"

	"cotizador-platform/lib/token"

	"github.com/gin-gonic/gin"
)

// AuthInjectionMiddleware validates the bearer token and stores the resolved
// user on the request context for handlers that scope data per user.
func AuthInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headerAuthToken := c.GetHeader("Authorization")
		if headerAuthToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth token"})
			return
		}

		authToken := strings.TrimPrefix(headerAuthToken, "Bearer ")
		if authToken == "" || authToken == headerAuthToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
			return
		}

		user, err := token.GetUserFromToken(authToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
