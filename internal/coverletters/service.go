package coverletters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/resumedoc"
	"sensai-backend/internal/resumes"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

// ResumeSource supplies the user's saved resume, if any.
type ResumeSource interface {
	GetByUserID(ctx context.Context, userID string) (resumes.Resume, error)
}

type Service struct {
	Repo    Repo
	Resumes ResumeSource
	LLM     *llm.Client
	Now     func() time.Time
}

func NewService(repo Repo, resumeSource ResumeSource, client *llm.Client) *Service {
	return &Service{Repo: repo, Resumes: resumeSource, LLM: client, Now: time.Now}
}

// Generate writes a new cover letter for the job. Every call creates a row.
func (s *Service) Generate(ctx context.Context, user users.User, in GenerateInput) (CoverLetter, error) {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.JobTitle == "" || in.CompanyName == "" {
		return CoverLetter{}, apperr.Invalid("jobTitle and companyName are required")
	}

	promptIn := prompts.CoverLetterInput{
		FullName:        user.FullName,
		Industry:        user.Industry,
		ExperienceYears: user.Experience,
		ProfileSkills:   user.Skills,
		Bio:             user.Bio,
		JobTitle:        in.JobTitle,
		CompanyName:     in.CompanyName,
		JobDescription:  in.JobDescription,
	}
	if sections, ok := s.resumeSections(ctx, user.ID); ok {
		promptIn.ResumeSummary = sections.Summary
		promptIn.ResumeSkills = sections.Skills
		promptIn.ResumeExperience = sections.Experience
		promptIn.ResumeEducation = sections.Education
	}

	content, err := s.LLM.Text(ctx, prompts.TaskCoverLetter, prompts.CoverLetter(promptIn))
	if err != nil {
		telemetry.Error("cover_letter.generate.failed", map[string]any{"user_id": user.ID, "err": err})
		return CoverLetter{}, err
	}

	letter := CoverLetter{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Content:        content,
		JobDescription: in.JobDescription,
		CompanyName:    in.CompanyName,
		JobTitle:       in.JobTitle,
		Status:         StatusCompleted,
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, letter); err != nil {
		telemetry.Error("cover_letter.create.failed", map[string]any{"user_id": user.ID, "err": err})
		return CoverLetter{}, err
	}
	telemetry.Info("cover_letter.created", map[string]any{"user_id": user.ID, "cover_letter_id": letter.ID})
	return letter, nil
}

func (s *Service) resumeSections(ctx context.Context, userID string) (resumedoc.Sections, bool) {
	if s.Resumes == nil {
		return resumedoc.Sections{}, false
	}
	res, err := s.Resumes.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			telemetry.Warn("cover_letter.resume_lookup_failed", map[string]any{"user_id": userID, "err": err})
		}
		return resumedoc.Sections{}, false
	}
	return resumedoc.Parse(res.Content), true
}

func (s *Service) List(ctx context.Context, userID string) ([]CoverLetter, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (CoverLetter, error) {
	return s.Repo.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	telemetry.Info("cover_letter.deleted", map[string]any{"user_id": userID, "cover_letter_id": id})
	return nil
}
