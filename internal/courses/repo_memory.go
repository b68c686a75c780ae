package courses

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	courses  map[string]Course
	chapters map[string][]Chapter
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		courses:  make(map[string]Course),
		chapters: make(map[string][]Chapter),
		now:      time.Now,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, course Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	chapters := append([]Chapter(nil), course.Chapters...)
	sortChapters(chapters)
	course.Chapters = nil
	r.courses[course.ID] = course
	r.chapters[course.ID] = chapters
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Course, error) {
	if err := ctx.Err(); err != nil {
		return Course{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return r.withChapters(c), nil
}

func (r *MemoryRepo) ListPublished(ctx context.Context) ([]Course, error) {
	return r.list(ctx, func(c Course) bool { return c.Publish })
}

func (r *MemoryRepo) ListByCreator(ctx context.Context, userID string) ([]Course, error) {
	return r.list(ctx, func(c Course) bool { return c.CreatedBy == userID })
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Course) bool) ([]Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Course{}
	for _, c := range r.courses {
		if keep(c) {
			out = append(out, r.withChapters(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Reconcile(ctx context.Context, courseID string, inputs []ChapterInput, opts ReconcileOptions) (ReconcileResult, error) {
	if err := ctx.Err(); err != nil {
		return ReconcileResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[courseID]
	if !ok {
		return ReconcileResult{}, ErrNotFound
	}

	now := r.now().UTC()
	existing := r.chapters[courseID]
	plan := PlanChapters(existing, inputs, opts.Prune)

	byID := make(map[string]int, len(existing))
	for i, ch := range existing {
		byID[ch.ID] = i
	}
	next := append([]Chapter(nil), existing...)
	for _, w := range plan.Writes {
		if w.Op == OpUpdate {
			ch := next[byID[w.ID]]
			ch.Content = contentOrEmpty(w.Input.Content)
			ch.VideoID = w.Input.VideoID
			ch.UpdatedAt = now
			next[byID[w.ID]] = ch
			continue
		}
		next = append(next, Chapter{
			ID:        w.ID,
			CourseID:  courseID,
			Position:  w.Position,
			Content:   contentOrEmpty(w.Input.Content),
			VideoID:   w.Input.VideoID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(plan.Prune) > 0 {
		pruned := make(map[string]bool, len(plan.Prune))
		for _, id := range plan.Prune {
			pruned[id] = true
		}
		kept := next[:0]
		for _, ch := range next {
			if !pruned[ch.ID] {
				kept = append(kept, ch)
			}
		}
		next = kept
	}
	sortChapters(next)
	r.chapters[courseID] = next

	if d := opts.Details; d != nil {
		course.Name = d.Name
		course.Category = d.Category
		course.Level = d.Level
		course.IncludeVideo = d.IncludeVideo
		course.Layout = d.Layout
	}
	if opts.Publish {
		course.Publish = true
	}
	if opts.Details != nil || opts.Publish {
		course.UpdatedAt = now
		r.courses[courseID] = course
	}
	return ReconcileResult{
		Created: plan.Count(OpCreate),
		Updated: plan.Count(OpUpdate),
		Pruned:  len(plan.Prune),
	}, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return ErrNotFound
	}
	delete(r.courses, id)
	delete(r.chapters, id)
	return nil
}

func (r *MemoryRepo) withChapters(c Course) Course {
	c.Chapters = append([]Chapter{}, r.chapters[c.ID]...)
	return c
}

func sortChapters(chapters []Chapter) {
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Position < chapters[j].Position })
}
