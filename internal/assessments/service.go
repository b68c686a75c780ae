package assessments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
)

type Service struct {
	Repo Repo
	LLM  *llm.Client
	Now  func() time.Time
}

func NewService(repo Repo, client *llm.Client) *Service {
	return &Service{Repo: repo, LLM: client, Now: time.Now}
}

type quizResponse struct {
	Questions []Question `json:"questions"`
}

// GenerateQuiz asks the oracle for a quiz tailored to the user's industry and
// skills. Questions without text or a correct answer are dropped; an empty
// quiz is a generation failure.
func (s *Service) GenerateQuiz(ctx context.Context, user users.User) ([]Question, error) {
	var resp quizResponse
	if err := s.LLM.JSON(ctx, prompts.TaskQuiz, prompts.Quiz(user.Industry, user.Skills), &resp); err != nil {
		telemetry.Error("quiz.generate.failed", map[string]any{"user_id": user.ID, "err": err})
		return nil, err
	}
	questions := make([]Question, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
			continue
		}
		if q.Options == nil {
			q.Options = []string{}
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		err := apperr.Generation(prompts.TaskQuiz, errors.New("no questions in response"))
		telemetry.Error("quiz.generate.failed", map[string]any{"user_id": user.ID, "err": err})
		return nil, err
	}
	return questions, nil
}

// Submit grades a finished quiz and stores it. The improvement tip is
// best-effort and left nil when generation fails.
func (s *Service) Submit(ctx context.Context, user users.User, in SubmitInput) (Assessment, error) {
	if len(in.Answers) != len(in.Questions) {
		return Assessment{}, apperr.Invalid("expected %d answers, got %d", len(in.Questions), len(in.Answers))
	}
	results, correct := Grade(in.Questions, in.Answers)

	score := Percent(correct, len(results))
	if in.Score != nil {
		if *in.Score < 0 || *in.Score > 100 {
			return Assessment{}, apperr.Invalid("score must be between 0 and 100")
		}
		score = *in.Score
	}

	a := Assessment{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		QuizScore:      score,
		Questions:      results,
		Category:       CategoryTechnical,
		ImprovementTip: s.improvementTip(ctx, user, results),
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		telemetry.Error("assessment.create.failed", map[string]any{"user_id": user.ID, "err": err})
		return Assessment{}, err
	}
	telemetry.Info("assessment.created", map[string]any{
		"user_id":       user.ID,
		"assessment_id": a.ID,
		"score":         score,
		"has_tip":       a.ImprovementTip != nil,
	})
	return a, nil
}

func (s *Service) improvementTip(ctx context.Context, user users.User, results []QuestionResult) *string {
	var wrong []prompts.WrongAnswer
	for _, r := range results {
		if !r.IsCorrect {
			wrong = append(wrong, prompts.WrongAnswer{Question: r.Question, CorrectAnswer: r.Answer, UserAnswer: r.UserAnswer})
		}
	}
	if len(wrong) == 0 || s.LLM == nil {
		return nil
	}
	tip, err := s.LLM.Text(ctx, prompts.TaskImprovementTip, prompts.ImprovementTip(user.Industry, wrong))
	if err != nil {
		telemetry.Warn("assessment.tip.skipped", map[string]any{"user_id": user.ID, "err": err})
		return nil
	}
	return &tip
}

func (s *Service) List(ctx context.Context, userID string) ([]Assessment, error) {
	return s.Repo.ListByUser(ctx, userID)
}
