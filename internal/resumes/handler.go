package resumes

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/shared/server/respond"
)

// multipartOverhead is the room left for boundaries and part headers on top
// of the file itself.
const multipartOverhead = 1 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the resume routes. rg must sit behind the access gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume", h.get)
	rg.PUT("/resume", h.save)
	rg.POST("/resume/improve", h.improve)
	rg.POST("/resume/import", h.importFile)
	rg.GET("/resume/import/original", h.original)
	rg.GET("/resume/sections", h.sections)
}

type saveRequest struct {
	Content string `json:"content"`
}

type improveRequest struct {
	Current string `json:"current"`
	Type    string `json:"type"`
}

func (h *Handler) get(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	res, err := h.Svc.Get(c.Request.Context(), user.ID)
	if err != nil {
		respond.FromError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, _ := access.UserFromContext(c)
	result, err := h.Svc.Save(c.Request.Context(), user, req.Content)
	if err != nil {
		respond.FromError(c, err, "failed to save resume")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) improve(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, _ := access.UserFromContext(c)
	text, err := h.Svc.Improve(c.Request.Context(), user, req.Type, req.Current)
	if err != nil {
		respond.FromError(c, err, "failed to improve content")
		return
	}
	respond.OK(c, gin.H{"improved": text})
}

func (h *Handler) importFile(c *gin.Context) {
	if h.Svc.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+multipartOverhead)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fileTooLarge(c)
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	if h.Svc.MaxUploadBytes > 0 && fileHeader.Size > h.Svc.MaxUploadBytes {
		h.fileTooLarge(c)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	defer f.Close()

	user, _ := access.UserFromContext(c)
	result, err := h.Svc.Import(c.Request.Context(), user.ID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
	if err != nil {
		respond.FromError(c, err, "failed to import resume")
		return
	}
	respond.Created(c, result)
}

func (h *Handler) fileTooLarge(c *gin.Context) {
	respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": h.Svc.MaxUploadBytes})
}

func (h *Handler) sections(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	sections, err := h.Svc.Sections(c.Request.Context(), user.ID)
	if err != nil {
		respond.FromError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, sections)
}

func (h *Handler) original(c *gin.Context) {
	user, _ := access.UserFromContext(c)
	key := c.Query("key")
	rc, err := h.Svc.Original(c.Request.Context(), user.ID, key)
	if err != nil {
		respond.FromError(c, err, "failed to load upload")
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	})
}
