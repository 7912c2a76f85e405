package store

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

func (s *Store) CreateIntegration(ctx context.Context, in *models.Integration) error {
	if err := s.db.WithContext(ctx).Create(in).Error; err != nil {
		return writeErr("create integration", err)
	}
	return nil
}

func (s *Store) ListIntegrationsByUser(ctx context.Context, userID uint) ([]models.Integration, error) {
	var out []models.Integration
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		if degraded("list integrations", err) {
			return []models.Integration{}, nil
		}
		return nil, listErr("list integrations", err)
	}
	return out, nil
}

func (s *Store) GetIntegration(ctx context.Context, id uint) (*models.Integration, error) {
	var in models.Integration
	if err := s.db.WithContext(ctx).First(&in, id).Error; err != nil {
		return nil, lookupErr("integration", err)
	}
	return &in, nil
}

// DeleteIntegration removes the row only when it belongs to userID.
func (s *Store) DeleteIntegration(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Integration{})
	return affected("delete integration", res)
}
