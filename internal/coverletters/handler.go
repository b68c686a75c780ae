package coverletters

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

// RegisterRoutes mounts the cover letter routes. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cover-letters", h.generate)
	rg.GET("/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.DELETE("/cover-letters/:id", h.delete)
}

func (h *Handler) generate(c *gin.Context) {
	var req GenerateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, _ := access.UserFromContext(c)
	letter, err := h.Svc.Generate(c.Request.Context(), user, req)
	if err != nil {
		respond.FromError(c, err, "failed to generate cover letter")
		return
	}
	respond.Created(c, letter)
}

func (h *Handler) list(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	letters, err := h.Svc.List(c.Request.Context(), user.ID)
	if err != nil {
		respond.FromError(c, err, "failed to list cover letters")
		return
	}
	respond.Items(c, letters)
}

func (h *Handler) get(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	letter, err := h.Svc.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to load cover letter")
		return
	}
	respond.OK(c, letter)
}

func (h *Handler) delete(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respond.FromError(c, err, "failed to delete cover letter")
		return
	}
	respond.NoContent(c)
}
