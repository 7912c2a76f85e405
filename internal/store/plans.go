package store

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

func (s *Store) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("price ASC").Find(&plans).Error; err != nil {
		if degraded("list active plans", err) {
			return []models.SubscriptionPlan{}, nil
		}
		return nil, listErr("list active plans", err)
	}
	return plans, nil
}

func (s *Store) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&plans).Error; err != nil {
		if degraded("list plans", err) {
			return []models.SubscriptionPlan{}, nil
		}
		return nil, listErr("list plans", err)
	}
	return plans, nil
}

func (s *Store) GetPlan(ctx context.Context, id uint) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr("plan", err)
	}
	return &p, nil
}

func (s *Store) FindPlanByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, lookupErr("plan by name", err)
	}
	return &p, nil
}

func (s *Store) CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return writeErr("create plan", err)
	}
	return nil
}

func (s *Store) UpdatePlan(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubscriptionPlan, error) {
	res := s.db.WithContext(ctx).Model(&models.SubscriptionPlan{}).Where("id = ?", id).Updates(fields)
	if err := affected("update plan", res); err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, id)
}

// EnsurePlan inserts the plan unless one with the same name exists.
func (s *Store) EnsurePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	err := s.db.WithContext(ctx).
		Where(models.SubscriptionPlan{Name: p.Name}).
		Attrs(*p).
		FirstOrCreate(p).Error
	if err != nil {
		return writeErr("ensure plan", err)
	}
	return nil
}
