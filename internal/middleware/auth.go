package middleware

import (
	"net/http"
	"strings"

	"github.com/01moynul/aitools-golang/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores the caller's id
// on the context. While maintenance is on only admins get through.
func AuthMiddleware(tokens TokenValidator, maintenance bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. --- Enforce Maintenance Mode ---
		if maintenance && claims.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "The system is currently in maintenance mode. Please try again later.",
			})
			return
		}

		// 4. --- Success ---
		c.Set(userIDKey, claims.Subject)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
