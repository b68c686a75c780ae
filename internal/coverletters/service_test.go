package coverletters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/resumes"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/users"
)

const savedResume = `## Professional Summary
Platform engineer.

## Skills
- Go
- Kafka

## Work Experience
### Staff Engineer @ Acme
**2020 - Present**

Built the event bus.
`

var testUser = users.User{ID: "user-1", FullName: "Ann", Industry: "tech-platform", Experience: 8, Skills: []string{"Go"}}

func newService(t *testing.T, oracle llm.OracleFunc) (*Service, *MemoryRepo, *resumes.MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	resumeRepo := resumes.NewMemoryRepo()
	return NewService(repo, resumeRepo, llm.NewClient(oracle, "stub", "m")), repo, resumeRepo
}

func TestGenerateUsesResumeSectionsAndCreatesRow(t *testing.T) {
	var prompt string
	svc, repo, resumeRepo := newService(t, func(ctx context.Context, req llm.Request) (string, error) {
		prompt = req.Prompt
		if req.Mode != llm.ModeMarkdown {
			t.Fatalf("expected markdown mode, got %s", req.Mode)
		}
		return "\n Dear Hiring Manager,\n\nHello.\n", nil
	})
	ctx := context.Background()
	if _, err := resumeRepo.Upsert(ctx, testUser.ID, savedResume, 80, "ok"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	in := GenerateInput{JobTitle: "SRE", CompanyName: "Initech", JobDescription: "Keep things up."}
	first, err := svc.Generate(ctx, testUser, in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.Content != "Dear Hiring Manager,\n\nHello." || first.Status != StatusCompleted {
		t.Fatalf("unexpected letter: %#v", first)
	}
	for _, want := range []string{"Initech", "SRE", "Kafka", "Staff Engineer at Acme (2020 - Present): Built the event bus.", "Platform engineer."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if _, err := svc.Generate(ctx, testUser, in); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	letters, _ := repo.ListByUser(ctx, testUser.ID)
	if len(letters) != 2 {
		t.Fatalf("expected a new row per call, got %d", len(letters))
	}
}

func TestGenerateWithoutResumeFallsBackToProfile(t *testing.T) {
	var prompt string
	svc, _, _ := newService(t, func(ctx context.Context, req llm.Request) (string, error) {
		prompt = req.Prompt
		return "letter", nil
	})
	if _, err := svc.Generate(context.Background(), testUser, GenerateInput{JobTitle: "SRE", CompanyName: "Initech"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(prompt, "Go") {
		t.Fatalf("expected profile skills in prompt:\n%s", prompt)
	}
}

func TestGenerateFailureCreatesNothing(t *testing.T) {
	svc, repo, _ := newService(t, func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("quota exceeded")
	})
	_, err := svc.Generate(context.Background(), testUser, GenerateInput{JobTitle: "SRE", CompanyName: "Initech"})
	if !errors.Is(err, apperr.ErrGenerationFailure) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	letters, _ := repo.ListByUser(context.Background(), testUser.ID)
	if len(letters) != 0 {
		t.Fatalf("expected no rows, got %d", len(letters))
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	svc, _, _ := newService(t, func(ctx context.Context, req llm.Request) (string, error) { return "x", nil })
	if _, err := svc.Generate(context.Background(), testUser, GenerateInput{JobTitle: " "}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	svc, repo, _ := newService(t, nil)
	ctx := context.Background()
	now := time.Now().UTC()
	_ = repo.Create(ctx, CoverLetter{ID: "a", UserID: "user-1", CreatedAt: now.Add(-time.Hour)})
	_ = repo.Create(ctx, CoverLetter{ID: "b", UserID: "user-1", CreatedAt: now})
	_ = repo.Create(ctx, CoverLetter{ID: "c", UserID: "user-2", CreatedAt: now})

	list, _ := svc.List(ctx, "user-1")
	if len(list) != 2 || list[0].ID != "b" {
		t.Fatalf("expected newest first for owner only, got %#v", list)
	}
	if _, err := svc.Get(ctx, "user-1", "c"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign letter, got %v", err)
	}
	if err := svc.Delete(ctx, "user-1", "c"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found deleting foreign letter, got %v", err)
	}
	if err := svc.Delete(ctx, "user-2", "c"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
