package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/dtos"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

type ResumeHandler struct {
	Resumes *services.ResumeService
}

func NewResumeHandler(r *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{Resumes: r}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	var req dtos.UploadResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resume, err := h.Resumes.Upload(c.Request.Context(), currentUser(c), req.FileName, req.ContentBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": resume.FileURL, "resume": resume})
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	analysis, err := h.Resumes.Analyze(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (h *ResumeHandler) Improve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	improved, err := h.Resumes.ApplyImprovements(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"improved_content": improved})
}

func (h *ResumeHandler) FindDuplicates(c *gin.Context) {
	groups, err := h.Resumes.FindDuplicates(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *ResumeHandler) DeleteDuplicates(c *gin.Context) {
	res, err := h.Resumes.DeleteDuplicates(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
