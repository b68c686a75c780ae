package courses

import (
	"context"

	"sensai-backend/internal/shared/apperr"
)

var (
	ErrNotFound        = apperr.NotFound("course")
	ErrChapterNotFound = apperr.NotFound("chapter")
)

// Repo stores courses together with their chapters. Reads return chapters
// ordered by position.
type Repo interface {
	// Create stores the course and the chapters already attached to it.
	Create(ctx context.Context, course Course) error
	Get(ctx context.Context, id string) (Course, error)
	ListPublished(ctx context.Context) ([]Course, error)
	ListByCreator(ctx context.Context, userID string) ([]Course, error)
	// Reconcile applies PlanChapters, and opts.Details when set, to the
	// course atomically.
	Reconcile(ctx context.Context, courseID string, inputs []ChapterInput, opts ReconcileOptions) (ReconcileResult, error)
	// Delete removes the course and its chapters.
	Delete(ctx context.Context, id string) error
}
