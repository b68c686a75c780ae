package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/auth"
	"sensai-backend/internal/shared/server/respond"
)

const (
	externalIDKey = "externalId"
	userIDKey     = "userId"
)

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Auth reads an optional bearer token and stores the external identity in the
// context. A malformed or invalid token is rejected; a missing one is not, so
// public routes keep working and the access gate decides.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" || verifier == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(externalIDKey, claims.Subject)
		c.Next()
	}
}

// ExternalIDFromContext returns the identity-provider subject set by Auth.
func ExternalIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(externalIDKey)
}

// SetUserID records the resolved internal user id.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// UserIDFromContext fetches the internal user ID set by the access gate.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
