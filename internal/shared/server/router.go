package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/assessments"
	googleauth "sensai-backend/internal/auth"
	"sensai-backend/internal/courses"
	"sensai-backend/internal/coverletters"
	"sensai-backend/internal/insights"
	"sensai-backend/internal/resumes"
	"sensai-backend/internal/services/health"
	"sensai-backend/internal/shared/config"
	"sensai-backend/internal/shared/metrics"
	"sensai-backend/internal/shared/server/middleware"
	"sensai-backend/internal/shared/server/respond"
	"sensai-backend/internal/users"
)

// RouterDeps are the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config   config.Config
	Verifier middleware.TokenVerifier
	Gate     *access.Gate
	Health   *health.Service

	GoogleAuth         *googleauth.GoogleService
	UserHandler        *users.Handler
	ResumeHandler      *resumes.Handler
	CoverLetterHandler *coverletters.Handler
	AssessmentHandler  *assessments.Handler
	InsightHandler     *insights.Handler
	CourseHandler      *courses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Logging(),
		middleware.Auth(deps.Verifier),
	)
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Gate == nil {
		return r
	}

	public := api.Group("", deps.Gate.Optional())
	if deps.CourseHandler != nil {
		deps.CourseHandler.RegisterPublicRoutes(public)
	}

	authed := api.Group("", deps.Gate.Require())
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.CoverLetterHandler != nil {
		deps.CoverLetterHandler.RegisterRoutes(authed)
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.RegisterRoutes(authed)
	}
	if deps.InsightHandler != nil {
		deps.InsightHandler.RegisterRoutes(authed)
	}
	if deps.CourseHandler != nil {
		deps.CourseHandler.RegisterRoutes(authed)
	}
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
