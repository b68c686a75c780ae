package assessments

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the interview routes. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interview/quiz", h.generateQuiz)
	rg.POST("/interview/assessments", h.submit)
	rg.GET("/interview/assessments", h.list)
}

func (h *Handler) generateQuiz(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	questions, err := h.Svc.GenerateQuiz(c.Request.Context(), user)
	if err != nil {
		respond.FromError(c, err, "failed to generate quiz questions")
		return
	}
	respond.OK(c, gin.H{"questions": questions})
}

func (h *Handler) submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, _ := access.UserFromContext(c)
	a, err := h.Svc.Submit(c.Request.Context(), user, req)
	if err != nil {
		respond.FromError(c, err, "failed to save quiz result")
		return
	}
	respond.Created(c, a)
}

func (h *Handler) list(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), user.ID)
	if err != nil {
		respond.FromError(c, err, "failed to load assessments")
		return
	}
	respond.Items(c, items)
}
