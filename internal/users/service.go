package users

import (
	"context"
	"errors"
	"strings"

	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/telemetry"
)

const (
	maxExperienceYears = 50
	maxBioLength       = 500
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Provision records the caller on first authenticated access and refreshes
// their identity fields on later logins.
func (s *Service) Provision(ctx context.Context, identity Identity) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(identity.ExternalID) == "" || strings.TrimSpace(identity.Email) == "" {
		return User{}, apperr.Invalid("external id and email are required")
	}
	user, err := s.Repo.Provision(ctx, identity)
	if err != nil {
		telemetry.Error("users.provision.failed", map[string]any{"err": err})
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.Invalid("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// GetByExternalID looks up a provisioned user by identity-provider subject.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByExternalID(ctx, externalID)
}

// OnboardingInput is the raw onboarding form.
type OnboardingInput struct {
	Industry    string
	SubIndustry string
	Experience  int
	Skills      []string
	Bio         string
}

// Onboard validates the form and stores the profile.
func (s *Service) Onboard(ctx context.Context, userID string, in OnboardingInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	profile, err := NormalizeOnboarding(in)
	if err != nil {
		return User{}, err
	}
	user, err := s.Repo.UpdateProfile(ctx, userID, profile)
	if err != nil {
		telemetry.Error("users.onboard.failed", map[string]any{"user_id": userID, "err": err})
		return User{}, err
	}
	return user, nil
}

// NormalizeOnboarding turns the form into a Profile. The stored industry is
// "<industry>-<sub-industry>", lowercased with spaces as dashes.
func NormalizeOnboarding(in OnboardingInput) (Profile, error) {
	industry := slug(in.Industry)
	sub := slug(in.SubIndustry)
	if industry == "" {
		return Profile{}, apperr.Invalid("industry is required")
	}
	if sub == "" {
		return Profile{}, apperr.Invalid("sub-industry is required")
	}
	if in.Experience < 0 || in.Experience > maxExperienceYears {
		return Profile{}, apperr.Invalid("experience must be between 0 and %d years", maxExperienceYears)
	}
	bio := strings.TrimSpace(in.Bio)
	if len([]rune(bio)) > maxBioLength {
		return Profile{}, apperr.Invalid("bio must be at most %d characters", maxBioLength)
	}
	skills := make([]string, 0, len(in.Skills))
	for _, s := range in.Skills {
		if t := strings.TrimSpace(s); t != "" {
			skills = append(skills, t)
		}
	}
	if len(skills) == 0 {
		return Profile{}, apperr.Invalid("at least one skill is required")
	}
	return Profile{
		Industry:   industry + "-" + sub,
		Experience: in.Experience,
		Skills:     skills,
		Bio:        bio,
	}, nil
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
