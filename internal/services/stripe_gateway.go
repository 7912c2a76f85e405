package services

import (
	"context"
	"strconv"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/config"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

const stripeTimeout = 20 * time.Second

// StripeGateway talks to the Stripe API through the package-level client.
type StripeGateway struct{}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{}
}

func (StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, stripeTimeout)
	defer cancel()

	userID := strconv.FormatUint(uint64(req.UserID), 10)
	metadata := map[string]string{
		"user_id":        userID,
		"customer_email": req.Email,
		"customer_name":  req.Name,
		"plan_name":      req.Offer.PlanName,
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.Offer.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(req.SuccessURL),
		CancelURL:           stripe.String(req.CancelURL),
		ClientReferenceID:   stripe.String(userID),
		AllowPromotionCodes: stripe.Bool(true),
		Metadata:            metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":   userID,
				"plan_name": req.Offer.PlanName,
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (StripeGateway) GetSubscription(ctx context.Context, id string) (*RemoteSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, stripeTimeout)
	defer cancel()

	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := stripeSubscription.Get(id, params)
	if err != nil {
		return nil, err
	}
	out := &RemoteSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.CancelAt > 0 {
		t := time.Unix(sub.CancelAt, 0)
		out.CancelAt = &t
	}
	return out, nil
}
