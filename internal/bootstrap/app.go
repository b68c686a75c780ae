package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/assessments"
	googleauth "sensai-backend/internal/auth"
	"sensai-backend/internal/courses"
	"sensai-backend/internal/coverletters"
	"sensai-backend/internal/insights"
	"sensai-backend/internal/llm"
	"sensai-backend/internal/llm/anthropic"
	"sensai-backend/internal/llm/gemini"
	"sensai-backend/internal/llm/openai"
	"sensai-backend/internal/resumes"
	"sensai-backend/internal/services/health"
	"sensai-backend/internal/shared/auth"
	"sensai-backend/internal/shared/config"
	"sensai-backend/internal/shared/server"
	"sensai-backend/internal/shared/storage/db"
	"sensai-backend/internal/shared/storage/object"
	localstore "sensai-backend/internal/shared/storage/object/local"
	s3store "sensai-backend/internal/shared/storage/object/s3"
	"sensai-backend/internal/shared/telemetry"
	"sensai-backend/internal/users"
	"sensai-backend/internal/video"
)

// App holds the wired dependencies of the API process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	LLM    *llm.Client
	Signer *auth.Signer

	Users        *users.Service
	Resumes      *resumes.Service
	CoverLetters *coverletters.Service
	Assessments  *assessments.Service
	Insights     *insights.Service
	Courses      *courses.Service
}

// Build connects storage, picks the generation provider and wires every
// service and handler into the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, LLM: client, Signer: signer}
	app.Router = app.wire(ctx)
	return app, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *App) wire(ctx context.Context) *gin.Engine {
	var (
		userRepo       users.Repo
		resumeRepo     resumes.Repo
		letterRepo     coverletters.Repo
		assessmentRepo assessments.Repo
		insightRepo    insights.Repo
		courseRepo     courses.Repo
		pinger         health.Pinger
	)
	if a.DB != nil {
		userRepo = &users.PGRepo{DB: a.DB}
		resumeRepo = &resumes.PGRepo{DB: a.DB}
		letterRepo = &coverletters.PGRepo{DB: a.DB}
		assessmentRepo = &assessments.PGRepo{DB: a.DB}
		insightRepo = &insights.PGRepo{DB: a.DB}
		courseRepo = &courses.PGRepo{DB: a.DB}
		pinger = a.DB
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		letterRepo = coverletters.NewMemoryRepo()
		assessmentRepo = assessments.NewMemoryRepo()
		insightRepo = insights.NewMemoryRepo()
		courseRepo = courses.NewMemoryRepo()
	}

	a.Users = users.NewService(userRepo)
	a.Resumes = resumes.NewService(resumeRepo, a.LLM, a.Store, a.Config.MaxUploadBytes)
	a.CoverLetters = coverletters.NewService(letterRepo, resumeRepo, a.LLM)
	a.Assessments = assessments.NewService(assessmentRepo, a.LLM)
	a.Insights = insights.NewService(insightRepo, a.LLM, a.Config.InsightTTL)
	a.Courses = courses.NewService(courseRepo, a.LLM, buildVideoFinder(ctx, a.Config))

	google := googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     a.Config.GoogleClientID,
		ClientSecret: a.Config.GoogleClientSecret,
		RedirectURL:  a.Config.GoogleRedirectURL,
		UIRedirect:   a.Config.UIRedirectURL,
	}, a.Users, a.Signer)

	return server.NewRouter(server.RouterDeps{
		Config:             a.Config,
		Verifier:           a.Signer,
		Gate:               access.NewGate(a.Users),
		Health:             health.NewService(pinger, a.LLM.Provider),
		GoogleAuth:         google,
		UserHandler:        users.NewHandler(a.Users),
		ResumeHandler:      resumes.NewHandler(a.Resumes),
		CoverLetterHandler: coverletters.NewHandler(a.CoverLetters),
		AssessmentHandler:  assessments.NewHandler(a.Assessments),
		InsightHandler:     insights.NewHandler(a.Insights),
		CourseHandler:      courses.NewHandler(a.Courses),
	})
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDev() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions(db.RoleAPI).WithEnv())
	if err != nil {
		if cfg.IsDev() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLLM returns the generation client for the configured provider. A
// provider without an API key falls back to the placeholder oracle in dev,
// as does LLM_PROVIDER=none.
func BuildLLM(ctx context.Context, cfg config.Config) (*llm.Client, error) {
	var (
		oracle llm.Oracle
		model  string
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			var c *openai.Client
			if c, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel); err == nil {
				oracle, model = c, c.Model()
			}
		}
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			var c *anthropic.Client
			if c, err = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel); err == nil {
				oracle, model = c, c.Model()
			}
		}
	case "none":
	default:
		if cfg.GeminiAPIKey != "" {
			var c *gemini.Client
			if c, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel); err == nil {
				oracle, model = c, c.Model()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("init %s client: %w", cfg.LLMProvider, err)
	}
	if oracle == nil {
		if !cfg.IsDev() && cfg.LLMProvider != "none" {
			return nil, fmt.Errorf("no API key configured for LLM provider %q", cfg.LLMProvider)
		}
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.NewClient(llm.PlaceholderOracle{}, "none", ""), nil
	}
	return llm.NewClient(oracle, cfg.LLMProvider, model), nil
}

func buildVideoFinder(ctx context.Context, cfg config.Config) courses.VideoFinder {
	if cfg.YouTubeAPIKey == "" {
		return nil
	}
	yt, err := video.NewYouTube(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		telemetry.Warn("bootstrap.video_disabled", map[string]any{"err": err})
		return nil
	}
	return yt
}
