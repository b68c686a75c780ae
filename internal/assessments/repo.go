package assessments

import "context"

type Repo interface {
	Create(ctx context.Context, a Assessment) error
	// ListByUser returns the user's assessments oldest first.
	ListByUser(ctx context.Context, userID string) ([]Assessment, error)
}
