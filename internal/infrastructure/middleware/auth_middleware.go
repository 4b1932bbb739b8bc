package middleware

import (
	"net/http"
	"strings"

	"drawnet/internal/core/services"

	"github.com/gin-gonic/gin"
)

const usernameContextKey = "username"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's username in the request context.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(usernameContextKey, claims.Username())
		c.Next()
	}
}

// UsernameFromContext returns the authenticated username, or "" when the
// request did not pass AuthMiddleware.
func UsernameFromContext(c *gin.Context) string {
	username, _ := c.Get(usernameContextKey)
	if s, ok := username.(string); ok {
		return s
	}
	return ""
}
