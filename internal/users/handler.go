package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/server/middleware"
	"sensai-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the profile routes. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PUT("/me/profile", h.onboard)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err, "failed to load user")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"user":        user,
		"isOnboarded": user.IsOnboarded(),
	})
}

func (h *Handler) onboard(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, err := h.Svc.Onboard(c.Request.Context(), middleware.UserIDFromContext(c), OnboardingInput{
		Industry:    req.Industry,
		SubIndustry: req.SubIndustry,
		Experience:  int(req.Experience),
		Skills:      req.Skills,
		Bio:         req.Bio,
	})
	if err != nil {
		respond.FromError(c, err, "failed to update profile")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"user":        user,
		"isOnboarded": user.IsOnboarded(),
	})
}
