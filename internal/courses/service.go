package courses

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/metrics"
	"sensai-backend/internal/shared/telemetry"
)

// VideoFinder returns the id of the first video matching query, or "".
type VideoFinder interface {
	FirstVideoID(ctx context.Context, query string) (string, error)
}

type Service struct {
	Repo   Repo
	LLM    *llm.Client
	Videos VideoFinder
	Now    func() time.Time
}

func NewService(repo Repo, client *llm.Client, videos VideoFinder) *Service {
	return &Service{Repo: repo, LLM: client, Videos: videos, Now: time.Now}
}

// LayoutParams are the user-chosen inputs for layout generation.
type LayoutParams struct {
	Category     string
	Topic        string
	Level        string
	Duration     string
	Chapters     int
	IncludeVideo bool
}

// CourseInput creates or replaces a course from a layout.
type CourseInput struct {
	Name         string
	Category     string
	Level        string
	IncludeVideo bool
	Layout       Layout
}

// GenerateLayout asks the oracle for an outline and stores it as a new,
// unpublished course with one chapter per outline entry.
func (s *Service) GenerateLayout(ctx context.Context, userID string, p LayoutParams) (Course, error) {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Category = strings.TrimSpace(p.Category)
	if p.Topic == "" || p.Category == "" {
		return Course{}, apperr.Invalid("topic and category are required")
	}
	level := NormalizeLevel(p.Level)
	if level == "" {
		return Course{}, apperr.Invalid("level must be one of Beginner, Intermediate, Advanced")
	}
	if p.Chapters < MinChapters || p.Chapters > MaxChapters {
		return Course{}, apperr.Invalid("chapter count must be between %d and %d", MinChapters, MaxChapters)
	}

	var layout Layout
	prompt := prompts.CourseLayout(prompts.CourseLayoutInput{
		Category:     p.Category,
		Topic:        p.Topic,
		Level:        level,
		Duration:     p.Duration,
		ChapterCount: p.Chapters,
	})
	if err := s.LLM.JSON(ctx, prompts.TaskCourseLayout, prompt, &layout); err != nil {
		telemetry.Error("course.layout.failed", map[string]any{"user_id": userID, "err": err})
		return Course{}, err
	}
	if len(layout.Chapters) > MaxChapters {
		layout.Chapters = layout.Chapters[:MaxChapters]
	}
	if err := layout.checkOutline(); err != nil {
		telemetry.Error("course.layout.unusable", map[string]any{"user_id": userID, "err": err})
		return Course{}, apperr.Generation(prompts.TaskCourseLayout, err)
	}
	if layout.Category == "" {
		layout.Category = p.Category
	}
	if layout.Topic == "" {
		layout.Topic = p.Topic
	}
	if layout.Duration == "" {
		layout.Duration = p.Duration
	}
	layout.Level = level
	layout.NoOfChapters = looseInt(len(layout.Chapters))

	name := strings.TrimSpace(layout.CourseName)
	if name == "" {
		name = p.Topic
	}
	return s.Create(ctx, userID, CourseInput{
		Name:         name,
		Category:     p.Category,
		Level:        level,
		IncludeVideo: p.IncludeVideo,
		Layout:       layout,
	})
}

// Create stores a new unpublished course from a caller-supplied layout.
func (s *Service) Create(ctx context.Context, userID string, in CourseInput) (Course, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return Course{}, err
	}
	inputs, err := in.Layout.OutlineInputs()
	if err != nil {
		return Course{}, apperr.Invalid("invalid course layout")
	}

	now := s.Now().UTC()
	course := Course{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Category:     in.Category,
		Level:        in.Level,
		IncludeVideo: in.IncludeVideo,
		Layout:       in.Layout,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, w := range PlanChapters(nil, inputs, false).Writes {
		course.Chapters = append(course.Chapters, Chapter{
			ID:        w.ID,
			CourseID:  course.ID,
			Position:  w.Position,
			Content:   contentOrEmpty(w.Input.Content),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.Repo.Create(ctx, course); err != nil {
		telemetry.Error("course.create.failed", map[string]any{"user_id": userID, "err": err})
		return Course{}, err
	}
	metrics.AddChaptersReconciled(string(OpCreate), len(course.Chapters))
	telemetry.Info("course.created", map[string]any{
		"user_id":   userID,
		"course_id": course.ID,
		"chapters":  len(course.Chapters),
	})
	return course, nil
}

// Get returns the course if it is published or viewerID created it.
// viewerID may be empty for anonymous callers.
func (s *Service) Get(ctx context.Context, viewerID, id string) (Course, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if !c.Publish && (viewerID == "" || c.CreatedBy != viewerID) {
		return Course{}, ErrNotFound
	}
	return c, nil
}

// Chapter returns the chapter at position of a visible course.
func (s *Service) Chapter(ctx context.Context, viewerID, id string, position int) (Chapter, error) {
	c, err := s.Get(ctx, viewerID, id)
	if err != nil {
		return Chapter{}, err
	}
	for _, ch := range c.Chapters {
		if ch.Position == position {
			return ch, nil
		}
	}
	return Chapter{}, ErrChapterNotFound
}

func (s *Service) ListPublished(ctx context.Context) ([]Course, error) {
	return s.Repo.ListPublished(ctx)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Course, error) {
	return s.Repo.ListByCreator(ctx, userID)
}

// Update replaces the layout and rebuilds chapters from the new outline.
// Positions past the new outline are removed.
func (s *Service) Update(ctx context.Context, userID, id string, in CourseInput) (Course, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return Course{}, err
	}
	in, err := normalizeInput(in)
	if err != nil {
		return Course{}, err
	}
	inputs, err := in.Layout.OutlineInputs()
	if err != nil {
		return Course{}, apperr.Invalid("invalid course layout")
	}
	details := &CourseDetails{
		Name:         in.Name,
		Category:     in.Category,
		Level:        in.Level,
		IncludeVideo: in.IncludeVideo,
		Layout:       in.Layout,
	}
	if _, err := s.reconcile(ctx, id, inputs, ReconcileOptions{Prune: true, Details: details}); err != nil {
		return Course{}, err
	}
	telemetry.Info("course.updated", map[string]any{"user_id": userID, "course_id": id})
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("course.deleted", map[string]any{"user_id": userID, "course_id": id})
	return nil
}

// ReconcileChapters writes inputs[i] at position i+1 and publishes the course.
func (s *Service) ReconcileChapters(ctx context.Context, userID, id string, inputs []ChapterInput) (Course, ReconcileResult, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return Course{}, ReconcileResult{}, err
	}
	if len(inputs) == 0 {
		return Course{}, ReconcileResult{}, apperr.Invalid("at least one chapter is required")
	}
	if len(inputs) > MaxChapters {
		return Course{}, ReconcileResult{}, apperr.Invalid("at most %d chapters are allowed", MaxChapters)
	}
	for i, in := range inputs {
		if len(in.Content) > 0 && !json.Valid(in.Content) {
			return Course{}, ReconcileResult{}, apperr.Invalid("chapter %d content is not valid JSON", i+1)
		}
	}
	result, err := s.reconcile(ctx, id, inputs, ReconcileOptions{Publish: true})
	if err != nil {
		return Course{}, ReconcileResult{}, err
	}
	course, err := s.Repo.Get(ctx, id)
	return course, result, err
}

// GenerateContent produces material for every outline chapter, looks up a
// video per chapter when the course asks for one, then reconciles and
// publishes. Any content failure aborts before anything is written.
func (s *Service) GenerateContent(ctx context.Context, userID, id string) (Course, ReconcileResult, error) {
	course, err := s.owned(ctx, userID, id)
	if err != nil {
		return Course{}, ReconcileResult{}, err
	}
	outline := course.Layout.Chapters
	if len(outline) == 0 {
		return Course{}, ReconcileResult{}, apperr.Invalid("course has no chapters to generate")
	}
	courseName := course.Name
	if courseName == "" {
		courseName = course.Layout.CourseName
	}

	inputs := make([]ChapterInput, 0, len(outline))
	for i, ch := range outline {
		var content json.RawMessage
		prompt := prompts.ChapterContent(courseName, ch.ChapterName, ch.About)
		if err := s.LLM.JSON(ctx, prompts.TaskChapterContent, prompt, &content); err != nil {
			telemetry.Error("course.chapter.generate.failed", map[string]any{
				"user_id":   userID,
				"course_id": id,
				"position":  i + 1,
				"err":       err,
			})
			return Course{}, ReconcileResult{}, err
		}
		inputs = append(inputs, ChapterInput{
			Content: content,
			VideoID: s.videoFor(ctx, course, courseName, ch.ChapterName),
		})
	}

	result, err := s.reconcile(ctx, id, inputs, ReconcileOptions{Publish: true})
	if err != nil {
		return Course{}, ReconcileResult{}, err
	}
	telemetry.Info("course.generated", map[string]any{
		"user_id":   userID,
		"course_id": id,
		"created":   result.Created,
		"updated":   result.Updated,
	})
	updated, err := s.Repo.Get(ctx, id)
	return updated, result, err
}

func (s *Service) videoFor(ctx context.Context, course Course, courseName, chapterName string) string {
	if !course.IncludeVideo || s.Videos == nil {
		return ""
	}
	videoID, err := s.Videos.FirstVideoID(ctx, courseName+": "+chapterName)
	if err != nil {
		telemetry.Warn("course.video.lookup_failed", map[string]any{
			"course_id": course.ID,
			"chapter":   chapterName,
			"err":       err,
		})
		return ""
	}
	return videoID
}

func (s *Service) reconcile(ctx context.Context, id string, inputs []ChapterInput, opts ReconcileOptions) (ReconcileResult, error) {
	result, err := s.Repo.Reconcile(ctx, id, inputs, opts)
	if err != nil {
		telemetry.Error("course.reconcile.failed", map[string]any{"course_id": id, "err": err})
		return ReconcileResult{}, err
	}
	metrics.AddChaptersReconciled(string(OpCreate), result.Created)
	metrics.AddChaptersReconciled(string(OpUpdate), result.Updated)
	telemetry.Info("course.reconciled", map[string]any{
		"course_id": id,
		"created":   result.Created,
		"updated":   result.Updated,
		"pruned":    result.Pruned,
		"published": opts.Publish,
	})
	return result, nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (Course, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if c.CreatedBy != userID {
		if !c.Publish {
			return Course{}, ErrNotFound
		}
		return Course{}, apperr.Forbidden("only the course creator can change it")
	}
	return c, nil
}

func normalizeInput(in CourseInput) (CourseInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = strings.TrimSpace(in.Layout.CourseName)
	}
	if in.Name == "" {
		return CourseInput{}, apperr.Invalid("course name is required")
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = strings.TrimSpace(in.Layout.Category)
	}
	level := in.Level
	if strings.TrimSpace(level) == "" {
		level = in.Layout.Level
	}
	in.Level = NormalizeLevel(level)
	if in.Level == "" {
		return CourseInput{}, apperr.Invalid("level must be one of Beginner, Intermediate, Advanced")
	}
	n := len(in.Layout.Chapters)
	if n < MinChapters || n > MaxChapters {
		return CourseInput{}, apperr.Invalid("chapter count must be between %d and %d", MinChapters, MaxChapters)
	}
	if err := in.Layout.checkOutline(); err != nil {
		return CourseInput{}, apperr.Invalid("%v", err)
	}
	in.Layout.NoOfChapters = looseInt(n)
	return in, nil
}
