package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/dtos"
	"github.com/justsurfingit/carreira-ia/internal/jobsearch"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

type JobHandler struct {
	Search       *services.JobSearchService
	Applications *services.ApplicationService
}

func NewJobHandler(search *services.JobSearchService, apps *services.ApplicationService) *JobHandler {
	return &JobHandler{Search: search, Applications: apps}
}

// SearchJobs is POST /jobs/search
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dtos.SearchJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	jobs, err := h.Search.Search(c.Request.Context(), currentUser(c), jobsearch.Query{
		What:      req.Query,
		Where:     req.Location,
		SalaryMin: req.SalaryMin,
		SalaryMax: req.SalaryMax,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// ApplyToJob is POST /jobs/:id/apply
func (h *JobHandler) ApplyToJob(c *gin.Context) {
	listingID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.Apply(c.Request.Context(), currentUser(c), req.ResumeID, listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"application": app,
		"reference":   services.ApplicationReference(app.ID),
	})
}
