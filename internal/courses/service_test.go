package courses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/shared/apperr"
)

const layoutJSON = "```json\n" + `{
  "courseName": "Go Basics",
  "description": "Learn Go",
  "category": "Programming",
  "topic": "Go",
  "level": "beginner",
  "duration": "2 hours",
  "noOfChapters": "2",
  "chapters": [
    {"chapterName": "Syntax", "about": "types and funcs", "duration": "1 hour"},
    {"chapterName": "Concurrency", "about": "goroutines", "duration": "1 hour"}
  ]
}` + "\n```"

type videoStub struct {
	queries []string
	err     error
}

func (v *videoStub) FirstVideoID(ctx context.Context, query string) (string, error) {
	v.queries = append(v.queries, query)
	if v.err != nil {
		return "", v.err
	}
	return "vid-" + strings.ReplaceAll(query, " ", ""), nil
}

func stub(fn func(req llm.Request) (string, error)) *llm.Client {
	return llm.NewClient(llm.OracleFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return fn(req)
	}), "stub", "m")
}

func oracle(chapterErr error) func(req llm.Request) (string, error) {
	return func(req llm.Request) (string, error) {
		switch req.Task {
		case prompts.TaskCourseLayout:
			return layoutJSON, nil
		case prompts.TaskChapterContent:
			if chapterErr != nil {
				return "", chapterErr
			}
			return `{"chapter":"x","description":"d","topics":[{"title":"t","explanation":"e","code_example":""}]}`, nil
		}
		return "", errors.New("unexpected task " + req.Task)
	}
}

func newTestService(fn func(req llm.Request) (string, error), videos VideoFinder) *Service {
	return NewService(NewMemoryRepo(), stub(fn), videos)
}

func TestGenerateLayoutCreatesUnpublishedCourse(t *testing.T) {
	svc := newTestService(oracle(nil), nil)
	course, err := svc.GenerateLayout(context.Background(), "user-1", LayoutParams{
		Category: "Programming",
		Topic:    "Go",
		Level:    "Beginner",
		Duration: "2 hours",
		Chapters: 2,
	})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if course.Publish {
		t.Fatalf("new course must not be published")
	}
	if course.Name != "Go Basics" || course.Level != LevelBeginner || course.CreatedBy != "user-1" {
		t.Fatalf("unexpected course: %#v", course)
	}
	if int(course.Layout.NoOfChapters) != 2 || len(course.Chapters) != 2 {
		t.Fatalf("expected 2 seeded chapters, got %d / %d", course.Layout.NoOfChapters, len(course.Chapters))
	}
	if course.Chapters[1].Position != 2 || !strings.Contains(string(course.Chapters[1].Content), "Concurrency") {
		t.Fatalf("unexpected seeded chapter: %#v", course.Chapters[1])
	}
}

func TestGenerateLayoutValidatesParams(t *testing.T) {
	tests := []struct {
		name string
		in   LayoutParams
	}{
		{name: "no topic", in: LayoutParams{Category: "c", Level: "Beginner", Chapters: 3}},
		{name: "bad level", in: LayoutParams{Category: "c", Topic: "t", Level: "Expert", Chapters: 3}},
		{name: "zero chapters", in: LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 0}},
		{name: "too many chapters", in: LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 21}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := newTestService(func(req llm.Request) (string, error) {
				called = true
				return layoutJSON, nil
			}, nil)
			_, err := svc.GenerateLayout(context.Background(), "user-1", tt.in)
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if called {
				t.Fatalf("oracle must not be called for invalid params")
			}
		})
	}
}

func TestGenerateLayoutFailureIsFatal(t *testing.T) {
	svc := newTestService(func(req llm.Request) (string, error) {
		return "no json here", nil
	}, nil)
	_, err := svc.GenerateLayout(context.Background(), "user-1", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})
	if !errors.Is(err, apperr.ErrGenerationFailure) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	mine, _ := svc.ListMine(context.Background(), "user-1")
	if len(mine) != 0 {
		t.Fatalf("expected no course to be stored, got %d", len(mine))
	}
}

func TestGenerateLayoutRejectsUnusableOutline(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "no chapters", output: `{"courseName":"Go","level":"beginner","chapters":[]}`},
		{name: "blank chapter name", output: `{"courseName":"Go","level":"beginner","chapters":[{"chapterName":"Syntax"},{"chapterName":"  "}]}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(func(req llm.Request) (string, error) {
				return tt.output, nil
			}, nil)
			_, err := svc.GenerateLayout(context.Background(), "user-1", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})
			if !errors.Is(err, apperr.ErrGenerationFailure) {
				t.Fatalf("expected generation failure, got %v", err)
			}
			if errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("oracle output must not be reported as caller input: %v", err)
			}
			mine, _ := svc.ListMine(context.Background(), "user-1")
			if len(mine) != 0 {
				t.Fatalf("expected no course to be stored, got %d", len(mine))
			}
		})
	}
}

func TestVisibilityAndOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(oracle(nil), nil)
	course, err := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Advanced", Chapters: 2})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	if _, err := svc.Get(ctx, "", course.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("anonymous read of draft: expected not found, got %v", err)
	}
	if _, err := svc.Get(ctx, "owner", course.ID); err != nil {
		t.Fatalf("owner read of draft: %v", err)
	}
	if err := svc.Delete(ctx, "intruder", course.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("delete of someone else's draft: expected not found, got %v", err)
	}

	if _, _, err := svc.GenerateContent(ctx, "owner", course.ID); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if _, err := svc.Get(ctx, "", course.ID); err != nil {
		t.Fatalf("anonymous read after publish: %v", err)
	}
	if _, err := svc.Chapter(ctx, "", course.ID, 2); err != nil {
		t.Fatalf("Chapter: %v", err)
	}
	if _, err := svc.Chapter(ctx, "", course.ID, 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing chapter: expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, "intruder", course.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("delete of someone else's course: expected forbidden, got %v", err)
	}
	published, _ := svc.ListPublished(ctx)
	if len(published) != 1 {
		t.Fatalf("expected 1 published course, got %d", len(published))
	}
}

func TestGenerateContentLooksUpVideos(t *testing.T) {
	ctx := context.Background()
	videos := &videoStub{}
	svc := newTestService(oracle(nil), videos)
	course, err := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2, IncludeVideo: true})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	seeded := course.Chapters

	got, res, err := svc.GenerateContent(ctx, "owner", course.ID)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if res.Created != 0 || res.Updated != 2 {
		t.Fatalf("expected seeded chapters to be updated in place, got %#v", res)
	}
	if !got.Publish {
		t.Fatalf("expected course to be published")
	}
	if len(videos.queries) != 2 || videos.queries[0] != "Go Basics: Syntax" {
		t.Fatalf("unexpected video queries: %#v", videos.queries)
	}
	for i, ch := range got.Chapters {
		if ch.ID != seeded[i].ID {
			t.Fatalf("chapter %d changed id", ch.Position)
		}
		if ch.VideoID == "" {
			t.Fatalf("chapter %d missing video", ch.Position)
		}
		if !strings.Contains(string(ch.Content), "topics") {
			t.Fatalf("chapter %d content not replaced: %s", ch.Position, ch.Content)
		}
	}
}

func TestGenerateContentVideoFailureIsDegraded(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(oracle(nil), &videoStub{err: errors.New("quota")})
	course, _ := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2, IncludeVideo: true})

	got, _, err := svc.GenerateContent(ctx, "owner", course.ID)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	for _, ch := range got.Chapters {
		if ch.VideoID != "" {
			t.Fatalf("expected empty video id, got %q", ch.VideoID)
		}
	}
}

func TestGenerateContentFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(oracle(errors.New("boom")), nil)
	course, _ := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})

	if _, _, err := svc.GenerateContent(ctx, "owner", course.ID); !errors.Is(err, apperr.ErrGenerationFailure) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	after, _ := svc.Get(ctx, "owner", course.ID)
	if after.Publish {
		t.Fatalf("failed generation must not publish")
	}
	if string(after.Chapters[0].Content) != string(course.Chapters[0].Content) {
		t.Fatalf("failed generation must not touch chapters")
	}
}

func TestUpdatePrunesTrailingChapters(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(oracle(nil), nil)
	course, _ := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})

	layout := course.Layout
	layout.Chapters = layout.Chapters[:1]
	updated, err := svc.Update(ctx, "owner", course.ID, CourseInput{Name: "Shorter", Level: "intermediate", Layout: layout})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Shorter" || updated.Level != LevelIntermediate {
		t.Fatalf("unexpected course: %#v", updated)
	}
	if len(updated.Chapters) != 1 || updated.Chapters[0].ID != course.Chapters[0].ID {
		t.Fatalf("expected first chapter kept and second pruned, got %#v", updated.Chapters)
	}
	if int(updated.Layout.NoOfChapters) != 1 {
		t.Fatalf("expected noOfChapters to follow the outline, got %d", updated.Layout.NoOfChapters)
	}
}

func TestReconcileChaptersRejectsBadPayloads(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(oracle(nil), nil)
	course, _ := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})

	if _, _, err := svc.ReconcileChapters(ctx, "owner", course.ID, nil); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("empty payload: expected invalid input, got %v", err)
	}
	bad := []ChapterInput{{Content: []byte("{not json")}}
	if _, _, err := svc.ReconcileChapters(ctx, "owner", course.ID, bad); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("bad json: expected invalid input, got %v", err)
	}
}

type brokenReconcileRepo struct {
	*MemoryRepo
}

func (brokenReconcileRepo) Reconcile(ctx context.Context, courseID string, inputs []ChapterInput, opts ReconcileOptions) (ReconcileResult, error) {
	return ReconcileResult{}, apperr.Persistence("write chapter", errors.New("connection reset"))
}

func TestUpdateLeavesCourseUntouchedWhenChaptersFail(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRepo()
	svc := NewService(mem, stub(oracle(nil)), nil)
	course, err := svc.GenerateLayout(ctx, "owner", LayoutParams{Category: "c", Topic: "t", Level: "Beginner", Chapters: 2})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	svc.Repo = brokenReconcileRepo{mem}
	layout := course.Layout
	layout.Chapters = layout.Chapters[:1]
	_, err = svc.Update(ctx, "owner", course.ID, CourseInput{Name: "Shorter", Level: "intermediate", Layout: layout})
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	stored, _ := mem.Get(ctx, course.ID)
	if stored.Name != course.Name || stored.Level != course.Level || len(stored.Layout.Chapters) != 2 {
		t.Fatalf("course changed despite failed update: %#v", stored)
	}
}
