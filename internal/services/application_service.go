package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
)

type ApplicationService struct {
	Store ApplicationStore
}

func NewApplicationService(st ApplicationStore) *ApplicationService {
	return &ApplicationService{Store: st}
}

// Apply records a pending application and queues its delivery. The duplicate
// and quota checks run before the insert; the unique index on
// (user_id, job_listing_id) catches concurrent duplicates.
func (s *ApplicationService) Apply(ctx context.Context, userID, resumeID, jobListingID uint) (*models.JobApplication, error) {
	resume, err := s.Store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume.UserID != userID {
		return nil, fmt.Errorf("resume %d: %w", resumeID, apperrors.ErrNotFound)
	}
	if _, err := s.Store.GetJobListing(ctx, jobListingID); err != nil {
		return nil, err
	}

	exists, err := s.Store.HasApplication(ctx, userID, jobListingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplication
	}

	_, plan, err := userPlan(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		count, err := s.Store.CountApplicationsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= int64(plan.MaxApplications) {
			return nil, fmt.Errorf("%w (%d of %d used)", apperrors.ErrQuotaExceeded, count, plan.MaxApplications)
		}
	}

	app := &models.JobApplication{
		UserID:       userID,
		ResumeID:     resumeID,
		JobListingID: jobListingID,
		Status:       models.ApplicationPending,
	}
	if err := s.Store.CreateApplicationWithTask(ctx, app); err != nil {
		return nil, err
	}
	logger.LogSuccessWithUser(userID, fmt.Sprintf("application %d queued for job listing %d", app.ID, jobListingID))
	return app, nil
}

var applicationStatuses = map[string]bool{
	models.ApplicationPending:   true,
	models.ApplicationSent:      true,
	models.ApplicationFailed:    true,
	models.ApplicationConfirmed: true,
}

// OverrideStatus lets an admin force any status; the change is audited.
func (s *ApplicationService) OverrideStatus(ctx context.Context, applicationID uint, status string, adminID uint) error {
	if !applicationStatuses[status] {
		return fmt.Errorf("unknown status %q: %w", status, apperrors.ErrInvalidInput)
	}
	details := fmt.Sprintf("Status set to %s by admin %d", status, adminID)
	if err := s.Store.SetApplicationStatus(ctx, applicationID, status, models.EventAdminOverride, details); err != nil {
		return err
	}
	logger.LogSuccessWithUser(adminID, fmt.Sprintf("application %d status overridden to %s", applicationID, status))
	return nil
}
