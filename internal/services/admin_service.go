package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"golang.org/x/sync/errgroup"
)

type UserDetail struct {
	User         *models.User             `json:"user"`
	Plan         *models.SubscriptionPlan `json:"plan"`
	Resumes      []models.Resume          `json:"resumes"`
	Applications []models.JobApplication  `json:"applications"`
	Integrations []models.Integration     `json:"integrations"`
}

type AdminService struct {
	Store AdminStore
}

func NewAdminService(st AdminStore) *AdminService {
	return &AdminService{Store: st}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Store.ListUsers(ctx)
}

// UserDetail loads the profile and everything the user owns concurrently.
func (s *AdminService) UserDetail(ctx context.Context, userID uint) (*UserDetail, error) {
	user, plan, err := userPlan(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}
	out := &UserDetail{User: user, Plan: plan}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Resumes, err = s.Store.ListResumesByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Applications, err = s.Store.ListApplicationsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Integrations, err = s.Store.ListIntegrationsByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignPlan points the user at an existing plan.
func (s *AdminService) AssignPlan(ctx context.Context, userID, planID, adminID uint) error {
	if _, err := s.Store.GetPlan(ctx, planID); err != nil {
		return err
	}
	if err := s.Store.UpdateUser(ctx, userID, map[string]interface{}{"subscription_plan_id": planID}); err != nil {
		return err
	}
	logger.LogSuccessWithUser(adminID, fmt.Sprintf("assigned plan %d to user %d", planID, userID))
	return nil
}

func (s *AdminService) ListResumes(ctx context.Context) ([]models.Resume, error) {
	return s.Store.ListAllResumes(ctx)
}

func (s *AdminService) ListApplications(ctx context.Context) ([]models.JobApplication, error) {
	return s.Store.ListAllApplications(ctx)
}
