package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/dtos"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

type UserHandler struct {
	Profiles     *services.ProfileService
	Integrations *services.IntegrationService
}

func NewUserHandler(p *services.ProfileService, i *services.IntegrationService) *UserHandler {
	return &UserHandler{Profiles: p, Integrations: i}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.Profiles.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetResumes(c *gin.Context) {
	resumes, err := h.Profiles.Resumes(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h *UserHandler) GetApplications(c *gin.Context) {
	apps, err := h.Profiles.Applications(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *UserHandler) GetIntegrations(c *gin.Context) {
	list, err := h.Integrations.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) CreateIntegration(c *gin.Context) {
	var req dtos.CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := h.Integrations.Create(c.Request.Context(), currentUser(c), services.IntegrationInput{
		Platform:    req.Platform,
		PlatformURL: req.PlatformURL,
		Username:    req.Username,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, in)
}

func (h *UserHandler) DeleteIntegration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	err := h.Integrations.Delete(c.Request.Context(), currentUser(c), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
