package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"sensai-backend/internal/extract"
	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/resumedoc"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/metrics"
	"sensai-backend/internal/shared/storage/object"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

const (
	FallbackScore    = 60
	FallbackFeedback = "Could not generate feedback. Please check your resume formatting and content."
)

type Service struct {
	Repo           Repo
	LLM            *llm.Client
	Store          object.Store
	MaxUploadBytes int64
}

func NewService(repo Repo, client *llm.Client, store object.Store, maxUploadBytes int64) *Service {
	return &Service{Repo: repo, LLM: client, Store: store, MaxUploadBytes: maxUploadBytes}
}

// Save reviews content and upserts it as the user's resume. A failed review
// never blocks the save; the fallback score and advice are stored instead.
func (s *Service) Save(ctx context.Context, user users.User, content string) (SaveResult, error) {
	if s == nil || s.Repo == nil {
		return SaveResult{}, errors.New("resume service not configured")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return SaveResult{}, apperr.Invalid("content is required")
	}

	score, feedback, fallback := s.review(ctx, user, content)

	res, err := s.Repo.Upsert(ctx, user.ID, content, score, feedback)
	if err != nil {
		telemetry.Error("resume.save.failed", map[string]any{"user_id": user.ID, "err": err})
		return SaveResult{}, err
	}
	telemetry.Info("resume.saved", map[string]any{
		"user_id":   user.ID,
		"ats_score": score,
		"fallback":  fallback,
	})
	return SaveResult{Resume: res, ATSScore: score, Feedback: feedback, Fallback: fallback}, nil
}

func (s *Service) review(ctx context.Context, user users.User, content string) (int, string, bool) {
	var fb Feedback
	err := s.LLM.JSON(ctx, prompts.TaskATSFeedback, prompts.ATSFeedback(user.Industry, content), &fb)
	if err == nil && strings.TrimSpace(fb.Feedback) == "" {
		err = errors.New("empty feedback")
	}
	if err != nil {
		metrics.IncResumeFeedbackFallback()
		telemetry.Warn("resume.feedback.fallback", map[string]any{"user_id": user.ID, "err": err})
		return FallbackScore, FallbackFeedback, true
	}
	return int(fb.Score), fb.Combined(), false
}

func (s *Service) Get(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetByUserID(ctx, userID)
}

// Improve rewrites one section of the resume for the user's industry.
func (s *Service) Improve(ctx context.Context, user users.User, section, current string) (string, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if !validSection(section) {
		return "", apperr.Invalid("type must be one of summary, experience, education, project")
	}
	current = strings.TrimSpace(current)
	if current == "" {
		return "", apperr.Invalid("current content is required")
	}
	text, err := s.LLM.Text(ctx, prompts.TaskImproveSection, prompts.ImproveSection(user.Industry, section, current))
	if err != nil {
		telemetry.Error("resume.improve.failed", map[string]any{"user_id": user.ID, "section": section, "err": err})
		return "", err
	}
	return text, nil
}

// ImportResult is an uploaded resume converted to text. It is not saved as the
// user's resume until the caller saves it.
type ImportResult struct {
	Upload   object.Object      `json:"upload"`
	Text     string             `json:"text"`
	Sections resumedoc.Sections `json:"sections"`
}

// Import stores the original upload and extracts its text.
func (s *Service) Import(ctx context.Context, userID, fileName, contentType string, r io.Reader) (ImportResult, error) {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return ImportResult{}, apperr.Invalid("could not read upload")
	}
	if int64(len(data)) > limit {
		return ImportResult{}, apperr.Invalid("file exceeds %d bytes", limit)
	}

	text, err := extract.Text(ctx, data, contentType, fileName)
	if err != nil {
		return ImportResult{}, err
	}
	kind := extract.DetectType(contentType, fileName, data)

	var upload object.Object
	if s.Store != nil {
		upload, err = s.Store.Put(ctx, userID, fileName, kind, bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, object.ErrInvalidName) {
				return ImportResult{}, apperr.Invalid("invalid file name")
			}
			telemetry.Error("resume.import.store_failed", map[string]any{"user_id": userID, "err": err})
			return ImportResult{}, apperr.Persistence("store upload", err)
		}
	}

	telemetry.Info("resume.imported", map[string]any{
		"user_id":    userID,
		"type":       kind,
		"size_bytes": len(data),
		"key":        upload.Key,
	})
	return ImportResult{Upload: upload, Text: text, Sections: resumedoc.Parse(text)}, nil
}

// Original streams back an upload made by Import. Keys outside the caller's
// namespace and missing objects are both reported as not found.
func (s *Service) Original(ctx context.Context, userID, key string) (io.ReadCloser, error) {
	if s.Store == nil || !object.OwnedBy(key, userID) {
		return nil, apperr.NotFound("upload")
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, apperr.NotFound("upload")
		}
		return nil, apperr.Persistence("open upload", err)
	}
	return rc, nil
}

// Sections parses the user's saved resume.
func (s *Service) Sections(ctx context.Context, userID string) (resumedoc.Sections, error) {
	res, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return resumedoc.Sections{}, err
	}
	return resumedoc.Parse(res.Content), nil
}
