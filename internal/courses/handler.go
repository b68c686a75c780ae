package courses

import (
	"net/http"
	"strconv"

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

type layoutRequest struct {
	Category     string   `json:"category"`
	Topic        string   `json:"topic"`
	Level        string   `json:"level"`
	Duration     string   `json:"duration"`
	NoOfChapters looseInt `json:"noOfChapters"`
	IncludeVideo flexBool `json:"includeVideo"`
}

type courseRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	IncludeVideo flexBool `json:"includeVideo"`
	CourseOutput Layout   `json:"courseOutput"`
}

func (r courseRequest) input() CourseInput {
	return CourseInput{
		Name:         r.Name,
		Category:     r.Category,
		Level:        r.Level,
		IncludeVideo: bool(r.IncludeVideo),
		Layout:       r.CourseOutput,
	}
}

type chaptersRequest struct {
	Chapters []ChapterInput `json:"chapters"`
}

// RegisterPublicRoutes mounts read routes. rg should carry the optional
// access gate so owners can see their unpublished courses.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses", h.listPublished)
	rg.GET("/courses/:courseId", h.get)
	rg.GET("/courses/:courseId/chapters/:position", h.chapter)
}

// RegisterRoutes mounts the owner routes. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses/layout", h.generateLayout)
	rg.POST("/courses", h.create)
	rg.GET("/courses/mine", h.listMine)
	rg.PUT("/courses/:courseId", h.update)
	rg.DELETE("/courses/:courseId", h.delete)
	rg.POST("/courses/:courseId/chapters", h.reconcile)
	rg.POST("/courses/:courseId/generate", h.generateContent)
}

func viewerID(c *gin.Context) string {
	if u, ok := access.UserFromContext(c); ok {
		return u.ID
	}
	return ""
}

func badRequest(c *gin.Context, err error) {
	respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
}

func (h *Handler) listPublished(c *gin.Context) {
	list, err := h.Svc.ListPublished(c.Request.Context())
	if err != nil {
		respond.FromError(c, err, "failed to list courses")
		return
	}
	respond.Items(c, list)
}

func (h *Handler) get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), viewerID(c), c.Param("courseId"))
	if err != nil {
		respond.FromError(c, err, "failed to load course")
		return
	}
	respond.OK(c, course)
}

func (h *Handler) chapter(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 1 {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "position must be a positive integer", nil)
		return
	}
	ch, err := h.Svc.Chapter(c.Request.Context(), viewerID(c), c.Param("courseId"), position)
	if err != nil {
		respond.FromError(c, err, "failed to load chapter")
		return
	}
	respond.OK(c, ch)
}

func (h *Handler) generateLayout(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := h.Svc.GenerateLayout(c.Request.Context(), viewerID(c), LayoutParams{
		Category:     req.Category,
		Topic:        req.Topic,
		Level:        req.Level,
		Duration:     req.Duration,
		Chapters:     int(req.NoOfChapters),
		IncludeVideo: bool(req.IncludeVideo),
	})
	if err != nil {
		respond.FromError(c, err, "failed to generate course layout")
		return
	}
	respond.Created(c, course)
}

func (h *Handler) create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), viewerID(c), req.input())
	if err != nil {
		respond.FromError(c, err, "failed to create course")
		return
	}
	respond.Created(c, course)
}

func (h *Handler) listMine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), viewerID(c))
	if err != nil {
		respond.FromError(c, err, "failed to list courses")
		return
	}
	respond.Items(c, list)
}

func (h *Handler) update(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), viewerID(c), c.Param("courseId"), req.input())
	if err != nil {
		respond.FromError(c, err, "failed to update course")
		return
	}
	respond.OK(c, course)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), viewerID(c), c.Param("courseId")); err != nil {
		respond.FromError(c, err, "failed to delete course")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) reconcile(c *gin.Context) {
	var req chaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, result, err := h.Svc.ReconcileChapters(c.Request.Context(), viewerID(c), c.Param("courseId"), req.Chapters)
	if err != nil {
		respond.FromError(c, err, "failed to save chapters")
		return
	}
	respond.OK(c, gin.H{"course": course, "result": result})
}

func (h *Handler) generateContent(c *gin.Context) {
	course, result, err := h.Svc.GenerateContent(c.Request.Context(), viewerID(c), c.Param("courseId"))
	if err != nil {
		respond.FromError(c, err, "failed to generate course content")
		return
	}
	respond.OK(c, gin.H{"course": course, "result": result})
}
