package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/utils"
)

const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// TokenIdentifier resolves an access token to its claims.
type TokenIdentifier interface {
	Identify(token string) (*utils.Claims, error)
}

// AuthMiddleware rejects requests without a bearer token with 401 and
// requests with a bad one with 403.
func AuthMiddleware(ids TokenIdentifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := utils.BearerToken(c.GetHeader("Authorization"))
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := ids.Identify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}
