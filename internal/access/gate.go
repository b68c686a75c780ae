// Package access resolves the caller's external identity to an internal user
// before any protected handler runs.
package access

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/server/middleware"
	"sensai-backend/internal/shared/server/respond"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

const userKey = "accessUser"

// UserLookup finds provisioned users by identity-provider subject.
type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (users.User, error)
}

type Gate struct {
	Users UserLookup
}

func NewGate(lookup UserLookup) *Gate {
	return &Gate{Users: lookup}
}

// Resolve maps an external identity to the internal user. An empty identity is
// Unauthorized; an identity with no provisioned user is NotFound.
func (g *Gate) Resolve(ctx context.Context, externalID string) (users.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return users.User{}, apperr.Unauthorized("authentication required")
	}
	user, err := g.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}

// Require rejects the request unless the caller resolves to a user. On success
// the internal id is available through middleware.UserIDFromContext.
func (g *Gate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := g.Resolve(c.Request.Context(), middleware.ExternalIDFromContext(c))
		if err != nil {
			telemetry.Warn("access.denied", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"path":       c.Request.URL.Path,
				"err":        err,
			})
			respond.FromError(c, err, "failed to resolve user")
			c.Abort()
			return
		}
		SetUser(c, user)
		c.Next()
	}
}

// Optional resolves the caller when an identity is present and otherwise lets
// the request through anonymously. Public course reads use it for owner checks.
func (g *Gate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := middleware.ExternalIDFromContext(c)
		if externalID == "" {
			c.Next()
			return
		}
		if user, err := g.Resolve(c.Request.Context(), externalID); err == nil {
			SetUser(c, user)
		}
		c.Next()
	}
}

// SetUser records the resolved user and its internal id on the request.
func SetUser(c *gin.Context, user users.User) {
	middleware.SetUserID(c, user.ID)
	c.Set(userKey, user)
}

// UserFromContext returns the user resolved by Require or Optional.
func UserFromContext(c *gin.Context) (users.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return users.User{}, false
	}
	user, ok := val.(users.User)
	return user, ok
}
