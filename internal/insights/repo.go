package insights

import (
	"context"

	"sensai-backend/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("industry insight")

// Repo keeps one insight per industry.
type Repo interface {
	Get(ctx context.Context, industry string) (Insight, error)
	Upsert(ctx context.Context, insight Insight) error
}
