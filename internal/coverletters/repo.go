package coverletters

import (
	"context"

	"sensai-backend/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("cover letter")

// Repo methods that take a userID only see that user's rows.
type Repo interface {
	Create(ctx context.Context, letter CoverLetter) error
	ListByUser(ctx context.Context, userID string) ([]CoverLetter, error)
	Get(ctx context.Context, userID, id string) (CoverLetter, error)
	Delete(ctx context.Context, userID, id string) error
}
