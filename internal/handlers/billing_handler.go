package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/dtos"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/services"
)

const maxWebhookBytes = int64(65536)

type BillingHandler struct {
	Billing *services.BillingService
}

func NewBillingHandler(b *services.BillingService) *BillingHandler {
	return &BillingHandler{Billing: b}
}

// CreateCheckout is POST /billing/checkout
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	url, err := h.Billing.CreateCheckout(c.Request.Context(), currentUser(c), req.PlanType, requestOrigin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *BillingHandler) GetSubscription(c *gin.Context) {
	status, err := h.Billing.SubscriptionStatus(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// StripeWebhook is POST /webhooks/stripe. It needs the raw body for the signature check.
func (h *BillingHandler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)
	payload, err := io.ReadAll(c.Request.Body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}

	event, err := h.Billing.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.LogError(err, "stripe webhook rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	result, err := h.Billing.Process(c.Request.Context(), event)
	if err != nil {
		logger.LogError(err, "stripe webhook "+string(event.Type)+" failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// requestOrigin is where checkout redirects back to: the Origin header, else this host.
func requestOrigin(c *gin.Context) string {
	if o := c.GetHeader("Origin"); o != "" {
		return o
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
