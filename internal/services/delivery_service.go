package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/notify"
)

// MaxBackoff caps the delay between two delivery attempts.
const MaxBackoff = 10 * time.Minute

// ApplicationReference is the tag recruiters see, e.g. "APP-42".
func ApplicationReference(id uint) string {
	return fmt.Sprintf("APP-%d", id)
}

// Credential is a job-site login opened for a single delivery attempt.
type Credential struct {
	Platform    string
	PlatformURL string
	Username    string
	Password    string
}

// CredentialSource finds the login a user stored for a job site. It returns
// nil when the user has none.
type CredentialSource interface {
	PlatformCredential(ctx context.Context, userID uint, platform string) (*Credential, error)
}

// Deliverer submits an application. cred is nil when the user stored no
// login for the listing's site.
type Deliverer interface {
	Deliver(ctx context.Context, app *models.JobApplication, cred *Credential) (payload string, err error)
}

// SimulatedDeliverer acknowledges every application with a synthetic receipt.
type SimulatedDeliverer struct{}

func (SimulatedDeliverer) Deliver(ctx context.Context, app *models.JobApplication, cred *Credential) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	receipt := map[string]interface{}{
		"reference":      ApplicationReference(app.ID),
		"status":         "received",
		"job_listing_id": app.JobListingID,
		"message":        "Application submitted successfully",
		"authenticated":  cred != nil,
	}
	if cred != nil {
		receipt["platform"] = cred.Platform
		receipt["username"] = cred.Username
	}
	b, err := json.Marshal(receipt)
	return string(b), err
}

// DeliveryService drains the outbox written by ApplicationService.Apply.
type DeliveryService struct {
	Store       DeliveryStore
	Deliverer   Deliverer
	Credentials CredentialSource
	Notifier    notify.Notifier
	Interval    time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	BatchSize   int
	Now         func() time.Time
}

func NewDeliveryService(st DeliveryStore, d Deliverer, n notify.Notifier, cfg config.DeliveryConfig) *DeliveryService {
	return &DeliveryService{
		Store:       st,
		Deliverer:   d,
		Notifier:    n,
		Interval:    cfg.Interval,
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: cfg.BaseBackoff,
		BatchSize:   cfg.BatchSize,
		Now:         time.Now,
	}
}

// Run processes due tasks immediately and then on every tick until ctx is done.
func (s *DeliveryService) Run(ctx context.Context) {
	log := logger.WithComponent("delivery")
	log.WithField("interval", s.Interval.String()).Info("delivery worker started")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.ProcessDue(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("delivery cycle failed")
		}
		select {
		case <-ctx.Done():
			log.Info("delivery worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessDue handles one batch of due tasks and reports how many were handled.
func (s *DeliveryService) ProcessDue(ctx context.Context) (int, error) {
	tasks, err := s.Store.DueDeliveryTasks(ctx, s.Now(), s.BatchSize)
	if err != nil {
		return 0, err
	}
	handled := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		if err := s.process(ctx, task); err != nil {
			logger.WithComponent("delivery").WithError(err).
				WithField("task_id", task.ID).
				Error("failed to record delivery outcome")
			continue
		}
		handled++
	}
	return handled, nil
}

func (s *DeliveryService) process(ctx context.Context, task models.DeliveryTask) error {
	app, err := s.Store.GetApplication(ctx, task.ApplicationID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.Store.CloseDeliveryTask(ctx, task.ID)
	}
	if err != nil {
		return err
	}
	if app.Status != models.ApplicationPending {
		return s.Store.CloseDeliveryTask(ctx, task.ID)
	}

	var payload string
	cred, err := s.credential(ctx, app)
	if err == nil {
		payload, err = s.Deliverer.Deliver(ctx, app, cred)
	}
	if err == nil {
		return s.Store.CompleteDelivery(ctx, task, s.Now(), payload)
	}

	attempt := task.Attempts + 1
	reason := err.Error()
	if attempt >= s.MaxAttempts {
		if ferr := s.Store.FailDelivery(ctx, task, reason); ferr != nil {
			return ferr
		}
		s.alert(ctx, app, reason)
		return nil
	}
	return s.Store.RescheduleDelivery(ctx, task, s.Now().Add(s.Backoff(attempt)), reason)
}

// credential opens the user's login for the site the listing came from.
func (s *DeliveryService) credential(ctx context.Context, app *models.JobApplication) (*Credential, error) {
	if s.Credentials == nil || app.JobListing == nil || app.JobListing.SourceSite == "" {
		return nil, nil
	}
	return s.Credentials.PlatformCredential(ctx, app.UserID, app.JobListing.SourceSite)
}

// Backoff is BaseBackoff doubled per failed attempt, capped at MaxBackoff.
func (s *DeliveryService) Backoff(attempt int) time.Duration {
	d := s.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= MaxBackoff {
			return MaxBackoff
		}
	}
	if d > MaxBackoff {
		return MaxBackoff
	}
	return d
}

func (s *DeliveryService) alert(ctx context.Context, app *models.JobApplication, reason string) {
	if s.Notifier == nil {
		return
	}
	body := fmt.Sprintf("%s (user %d) failed after %d attempts: %s", ApplicationReference(app.ID), app.UserID, s.MaxAttempts, reason)
	if err := s.Notifier.Notify(ctx, "Application delivery failed", body); err != nil {
		logger.LogError(err, "failed to send delivery alert")
	}
}
