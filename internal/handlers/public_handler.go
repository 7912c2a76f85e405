package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

type PublicHandler struct {
	Catalog *services.CatalogService
}

func NewPublicHandler(cat *services.CatalogService) *PublicHandler {
	return &PublicHandler{Catalog: cat}
}

func (h *PublicHandler) GetPlans(c *gin.Context) {
	plans, err := h.Catalog.ActivePlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PublicHandler) GetTestimonials(c *gin.Context) {
	list, err := h.Catalog.Testimonials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PublicHandler) GetFaqs(c *gin.Context) {
	list, err := h.Catalog.Faqs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
