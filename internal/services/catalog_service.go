package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"gorm.io/datatypes"
)

var priceRe = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

// PlanInput carries admin plan edits. Nil fields are left untouched on update.
type PlanInput struct {
	Name            *string
	Description     *string
	Price           *string
	Currency        *string
	MaxApplications *int
	HasAIAnalysis   *bool
	Features        []string
	IsActive        *bool
}

type CatalogService struct {
	Store CatalogStore
}

func NewCatalogService(st CatalogStore) *CatalogService {
	return &CatalogService{Store: st}
}

func (s *CatalogService) ActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.Store.ListActivePlans(ctx)
}

func (s *CatalogService) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	return s.Store.ListVisibleTestimonials(ctx)
}

func (s *CatalogService) Faqs(ctx context.Context) ([]models.Faq, error) {
	return s.Store.ListVisibleFaqs(ctx)
}

func (s *CatalogService) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.Store.ListPlans(ctx)
}

func (s *CatalogService) CreatePlan(ctx context.Context, in PlanInput) (*models.SubscriptionPlan, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidInput)
	}
	if in.Price == nil || in.MaxApplications == nil {
		return nil, fmt.Errorf("price and max_applications are required: %w", apperrors.ErrInvalidInput)
	}
	fields, err := planFields(in)
	if err != nil {
		return nil, err
	}

	plan := &models.SubscriptionPlan{
		Name:            fields["name"].(string),
		Price:           fields["price"].(string),
		MaxApplications: fields["max_applications"].(int),
		Currency:        "BRL",
		IsActive:        true,
		Features:        datatypes.JSON("[]"),
	}
	if v, ok := fields["description"].(string); ok {
		plan.Description = v
	}
	if v, ok := fields["currency"].(string); ok {
		plan.Currency = v
	}
	if v, ok := fields["has_ai_analysis"].(bool); ok {
		plan.HasAIAnalysis = v
	}
	if v, ok := fields["features"].(datatypes.JSON); ok {
		plan.Features = v
	}
	if v, ok := fields["is_active"].(bool); ok {
		plan.IsActive = v
	}
	if err := s.Store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *CatalogService) UpdatePlan(ctx context.Context, id uint, in PlanInput) (*models.SubscriptionPlan, error) {
	fields, err := planFields(in)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return s.Store.GetPlan(ctx, id)
	}
	return s.Store.UpdatePlan(ctx, id, fields)
}

// planFields validates the set fields and returns them keyed by column.
func planFields(in PlanInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidInput)
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		price := strings.TrimSpace(*in.Price)
		if !priceRe.MatchString(price) {
			return nil, fmt.Errorf("price %q is not a decimal amount: %w", price, apperrors.ErrInvalidInput)
		}
		fields["price"] = price
	}
	if in.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(cur) != 3 {
			return nil, fmt.Errorf("currency must be a 3-letter code: %w", apperrors.ErrInvalidInput)
		}
		fields["currency"] = cur
	}
	if in.MaxApplications != nil {
		if *in.MaxApplications < 0 {
			return nil, fmt.Errorf("max_applications must be >= 0: %w", apperrors.ErrInvalidInput)
		}
		fields["max_applications"] = *in.MaxApplications
	}
	if in.HasAIAnalysis != nil {
		fields["has_ai_analysis"] = *in.HasAIAnalysis
	}
	if in.Features != nil {
		b, err := json.Marshal(in.Features)
		if err != nil {
			return nil, fmt.Errorf("features: %w", apperrors.ErrInvalidInput)
		}
		fields["features"] = datatypes.JSON(b)
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	return fields, nil
}
