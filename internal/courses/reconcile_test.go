package courses

import (
	"context"
	"encoding/json"
	"testing"
)

func payload(s string) ChapterInput {
	raw, _ := json.Marshal(map[string]string{"chapter": s})
	return ChapterInput{Content: raw}
}

func chapterName(t *testing.T, ch Chapter) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(ch.Content, &body); err != nil {
		t.Fatalf("decode chapter content: %v", err)
	}
	return body["chapter"]
}

func TestPlanChaptersByPosition(t *testing.T) {
	existing := []Chapter{
		{ID: "c1", Position: 1},
		{ID: "c2", Position: 2},
		{ID: "c3", Position: 3},
	}
	tests := []struct {
		name       string
		inputs     int
		prune      bool
		wantCreate int
		wantUpdate int
		wantPruned int
		wantKeep   int
	}{
		{name: "fewer inputs", inputs: 2, wantUpdate: 2, wantKeep: 3},
		{name: "grows", inputs: 5, wantCreate: 2, wantUpdate: 3, wantKeep: 5},
		{name: "shrinks without prune", inputs: 1, wantUpdate: 1, wantKeep: 3},
		{name: "shrinks with prune", inputs: 1, prune: true, wantUpdate: 1, wantPruned: 2, wantKeep: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			inputs := make([]ChapterInput, tt.inputs)
			plan := PlanChapters(existing, inputs, tt.prune)
			if got := plan.Count(OpCreate); got != tt.wantCreate {
				t.Fatalf("creates = %d, want %d", got, tt.wantCreate)
			}
			if got := plan.Count(OpUpdate); got != tt.wantUpdate {
				t.Fatalf("updates = %d, want %d", got, tt.wantUpdate)
			}
			if len(plan.Prune) != tt.wantPruned {
				t.Fatalf("pruned = %d, want %d", len(plan.Prune), tt.wantPruned)
			}
			if plan.Keep != tt.wantKeep {
				t.Fatalf("keep = %d, want %d", plan.Keep, tt.wantKeep)
			}
			for i, w := range plan.Writes {
				if w.Position != i+1 {
					t.Fatalf("write %d at position %d", i, w.Position)
				}
				if w.Op == OpUpdate && w.ID != existing[i].ID {
					t.Fatalf("update at %d targets %s, want %s", w.Position, w.ID, existing[i].ID)
				}
			}
		})
	}
}

func TestPlanChaptersIntoEmptyCourseCreatesAll(t *testing.T) {
	plan := PlanChapters(nil, []ChapterInput{payload("A"), payload("B")}, false)
	if plan.Count(OpCreate) != 2 || plan.Count(OpUpdate) != 0 {
		t.Fatalf("unexpected plan: %#v", plan)
	}
	if plan.Writes[0].ID == plan.Writes[1].ID {
		t.Fatalf("expected distinct ids for created chapters")
	}
}

func TestReconcileUpdatesInPlaceAndAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	if err := repo.Create(ctx, Course{ID: "course-1", Name: "Go", CreatedBy: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := repo.Reconcile(ctx, "course-1", []ChapterInput{payload("A"), payload("B")}, ReconcileOptions{Publish: true})
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 {
		t.Fatalf("unexpected first result: %#v", res)
	}
	first, _ := repo.Get(ctx, "course-1")
	if !first.Publish {
		t.Fatalf("expected course to be published")
	}
	if len(first.Chapters) != 2 || chapterName(t, first.Chapters[0]) != "A" || chapterName(t, first.Chapters[1]) != "B" {
		t.Fatalf("unexpected chapters after first pass: %#v", first.Chapters)
	}

	res, err = repo.Reconcile(ctx, "course-1", []ChapterInput{payload("A'"), payload("B"), payload("C")}, ReconcileOptions{Publish: true})
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if res.Created != 1 || res.Updated != 2 {
		t.Fatalf("unexpected second result: %#v", res)
	}
	second, _ := repo.Get(ctx, "course-1")
	if len(second.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(second.Chapters))
	}
	for i, ch := range second.Chapters {
		if ch.Position != i+1 {
			t.Fatalf("chapter %d at position %d", i, ch.Position)
		}
	}
	if second.Chapters[0].ID != first.Chapters[0].ID || second.Chapters[1].ID != first.Chapters[1].ID {
		t.Fatalf("expected positions 1 and 2 to keep their ids")
	}
	if chapterName(t, second.Chapters[0]) != "A'" || chapterName(t, second.Chapters[2]) != "C" {
		t.Fatalf("unexpected content after second pass: %#v", second.Chapters)
	}
}

func TestReconcileTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_ = repo.Create(ctx, Course{ID: "course-1", CreatedBy: "user-1"})
	inputs := []ChapterInput{payload("A"), payload("B")}

	if _, err := repo.Reconcile(ctx, "course-1", inputs, ReconcileOptions{}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	res, err := repo.Reconcile(ctx, "course-1", inputs, ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Created != 0 || res.Updated != 2 {
		t.Fatalf("expected pure updates on repeat, got %#v", res)
	}
	c, _ := repo.Get(ctx, "course-1")
	if len(c.Chapters) != 2 || c.Publish {
		t.Fatalf("unexpected course state: %#v", c)
	}
}

func TestReconcileUnknownCourse(t *testing.T) {
	_, err := NewMemoryRepo().Reconcile(context.Background(), "missing", []ChapterInput{payload("A")}, ReconcileOptions{})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReconcileAppliesDetails(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_ = repo.Create(ctx, Course{ID: "course-1", Name: "Go", Level: LevelBeginner, CreatedBy: "user-1"})

	details := &CourseDetails{Name: "Go in depth", Category: "Programming", Level: LevelAdvanced, IncludeVideo: true, Layout: Layout{CourseName: "Go in depth"}}
	if _, err := repo.Reconcile(ctx, "course-1", []ChapterInput{payload("A")}, ReconcileOptions{Details: details}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	c, _ := repo.Get(ctx, "course-1")
	if c.Name != "Go in depth" || c.Level != LevelAdvanced || !c.IncludeVideo || c.Layout.CourseName != "Go in depth" {
		t.Fatalf("details not applied: %#v", c)
	}
	if c.Publish {
		t.Fatalf("details must not publish the course")
	}
}
