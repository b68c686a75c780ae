package insights

import (
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

// RegisterRoutes mounts GET /insights. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/insights", h.get)
}

func (h *Handler) get(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	in, err := h.Svc.ForUser(c.Request.Context(), user)
	if err != nil {
		respond.FromError(c, err, "failed to load industry insights")
		return
	}
	respond.OK(c, in)
}
