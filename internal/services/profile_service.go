package services

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

type Profile struct {
	User             *models.User             `json:"user"`
	Plan             *models.SubscriptionPlan `json:"plan"`
	ResumeCount      int                      `json:"resume_count"`
	ApplicationCount int                      `json:"application_count"`
}

type ProfileService struct {
	Store ProfileStore
}

func NewProfileService(st ProfileStore) *ProfileService {
	return &ProfileService{Store: st}
}

func (s *ProfileService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, plan, err := userPlan(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}
	resumes, err := s.Store.ListResumesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.Store.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Plan: plan, ResumeCount: len(resumes), ApplicationCount: len(apps)}, nil
}

func (s *ProfileService) Resumes(ctx context.Context, userID uint) ([]models.Resume, error) {
	return s.Store.ListResumesByUser(ctx, userID)
}

func (s *ProfileService) Applications(ctx context.Context, userID uint) ([]models.JobApplication, error) {
	return s.Store.ListApplicationsByUser(ctx, userID)
}
