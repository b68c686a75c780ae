package users

import (
	"context"

	"sensai-backend/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("user")

type Repo interface {
	// Provision creates the user for an external identity on first login and
	// refreshes the identity fields afterwards. Profile fields are untouched.
	Provision(ctx context.Context, identity Identity) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, profile Profile) (User, error)
}
