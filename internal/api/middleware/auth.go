package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/services"
)

const userIDKey = "userID"

// RequireAuth validates the JWT from the token cookie or the
// Authorization header and stores the user id on the request context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if after, ok := strings.CutPrefix(header, "Bearer "); ok {
				token = after
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user's id. Only valid on routes
// behind RequireAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
