package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/dtos"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

// AdminHandler serves /admin. Every route sits behind JWTAuth and AdminOnly.
type AdminHandler struct {
	Admin        *services.AdminService
	Catalog      *services.CatalogService
	Resumes      *services.ResumeService
	Applications *services.ApplicationService
}

func NewAdminHandler(a *services.AdminService, cat *services.CatalogService, r *services.ResumeService, apps *services.ApplicationService) *AdminHandler {
	return &AdminHandler{Admin: a, Catalog: cat, Resumes: r, Applications: apps}
}

func (h *AdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.Catalog.Plans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req dtos.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := h.Catalog.CreatePlan(c.Request.Context(), services.PlanInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := h.Catalog.UpdatePlan(c.Request.Context(), id, services.PlanInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.Admin.UserDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdminHandler) AssignPlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Admin.AssignPlan(c.Request.Context(), id, req.PlanID, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListResumes(c *gin.Context) {
	resumes, err := h.Admin.ListResumes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h *AdminHandler) AnalyzeResume(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	analysis, err := h.Resumes.AdminAnalyze(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.Admin.ListApplications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *AdminHandler) SetApplicationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Applications.OverrideStatus(c.Request.Context(), id, req.Status, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
