package resumes

import (
	"context"

	"sensai-backend/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("resume")

type Repo interface {
	// Upsert writes the resume keyed by user, replacing content, score and
	// feedback together.
	Upsert(ctx context.Context, userID, content string, score int, feedback string) (Resume, error)
	GetByUserID(ctx context.Context, userID string) (Resume, error)
}
