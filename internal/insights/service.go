package insights

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

const DefaultTTL = 7 * 24 * time.Hour

type Service struct {
	Repo Repo
	LLM  *llm.Client
	TTL  time.Duration
	Now  func() time.Time

	group singleflight.Group
}

func NewService(repo Repo, client *llm.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{Repo: repo, LLM: client, TTL: ttl, Now: time.Now}
}

// ForUser returns the insight for the user's industry, generating it on the
// first request and again once it has gone stale. Concurrent requests for one
// industry share a single generation.
func (s *Service) ForUser(ctx context.Context, user users.User) (Insight, error) {
	if !user.IsOnboarded() {
		return Insight{}, apperr.Invalid("complete onboarding to see industry insights")
	}
	industry := user.Industry

	current, err := s.Repo.Get(ctx, industry)
	switch {
	case err == nil && !current.Stale(s.Now()):
		return current, nil
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return Insight{}, err
	}

	// The generation is shared, so it must outlive whichever request started
	// it. Each caller still stops waiting when its own context ends.
	ch := s.group.DoChan(industry, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), industry)
	})
	select {
	case <-ctx.Done():
		return Insight{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Insight{}, res.Err
		}
		if res.Shared {
			telemetry.Debug("insight.shared_generation", map[string]any{"industry": industry})
		}
		return res.Val.(Insight), nil
	}
}

func (s *Service) refresh(ctx context.Context, industry string) (Insight, error) {
	var data Data
	if err := s.LLM.JSON(ctx, prompts.TaskIndustryInsight, prompts.IndustryInsight(industry), &data); err != nil {
		telemetry.Error("insight.generate.failed", map[string]any{"industry": industry, "err": err})
		return Insight{}, err
	}
	now := s.Now().UTC()
	in := Insight{
		Industry:     industry,
		Data:         data.normalize(),
		LastUpdated:  now,
		NextUpdateAt: now.Add(s.TTL),
	}
	if err := s.Repo.Upsert(ctx, in); err != nil {
		telemetry.Error("insight.save.failed", map[string]any{"industry": industry, "err": err})
		return Insight{}, err
	}
	telemetry.Info("insight.generated", map[string]any{"industry": industry, "next_update_at": in.NextUpdateAt})
	return in, nil
}
