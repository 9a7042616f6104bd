package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextClaimsKey = "authClaims"
)

// TokenParser validates a bearer token and returns its claims
type TokenParser interface {
	ParseToken(token string) (*Claims, error)
}

// RequireAuth validates the Authorization header and stores the claims in the
// request context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be a bearer token"})
			return
		}

		claims, err := parser.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole allows only the listed roles through. Must run after RequireAuth.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// ClaimsFromContext returns the authenticated claims, or nil when the request
// did not pass RequireAuth.
func ClaimsFromContext(c *gin.Context) *Claims {
	value, exists := c.Get(contextClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// UserIDFromContext returns the authenticated user ID, or uuid.Nil
func UserIDFromContext(c *gin.Context) uuid.UUID {
	if claims := ClaimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}
