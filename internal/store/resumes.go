package store

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

func (s *Store) CreateResume(ctx context.Context, r *models.Resume) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return writeErr("create resume", err)
	}
	return nil
}

func (s *Store) GetResume(ctx context.Context, id uint) (*models.Resume, error) {
	var r models.Resume
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, lookupErr("resume", err)
	}
	return &r, nil
}

func (s *Store) ListResumesByUser(ctx context.Context, userID uint) ([]models.Resume, error) {
	var out []models.Resume
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		if degraded("list resumes", err) {
			return []models.Resume{}, nil
		}
		return nil, listErr("list resumes", err)
	}
	return out, nil
}

func (s *Store) ListAllResumes(ctx context.Context) ([]models.Resume, error) {
	var out []models.Resume
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		if degraded("list all resumes", err) {
			return []models.Resume{}, nil
		}
		return nil, listErr("list all resumes", err)
	}
	return out, nil
}

func (s *Store) UpdateResume(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Resume{}).Where("id = ?", id).Updates(fields)
	return affected("update resume", res)
}

// DeleteResumes removes the given ids owned by userID and returns how many rows went away.
func (s *Store) DeleteResumes(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Resume{})
	if res.Error != nil {
		return 0, writeErr("delete resumes", res.Error)
	}
	return res.RowsAffected, nil
}
