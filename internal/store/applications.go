package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"gorm.io/gorm"
)

func (s *Store) HasApplication(ctx context.Context, userID, jobListingID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("user_id = ? AND job_listing_id = ?", userID, jobListingID).
		Count(&count).Error
	if err != nil {
		return false, writeErr("check application", err)
	}
	return count > 0, nil
}

func (s *Store) CountApplicationsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, writeErr("count applications", err)
	}
	return count, nil
}

// CreateApplicationWithTask stores the application, its outbox task and the
// QUEUED event in one transaction.
func (s *Store) CreateApplicationWithTask(ctx context.Context, app *models.JobApplication) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateApplication
			}
			return err
		}
		task := models.DeliveryTask{
			ApplicationID: app.ID,
			Status:        models.TaskQueued,
			NextAttemptAt: time.Now(),
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return tx.Create(&models.ApplicationEvent{
			ApplicationID: app.ID,
			EventType:     models.EventQueued,
			Details:       fmt.Sprintf("Application to job listing %d queued for delivery", app.JobListingID),
		}).Error
	})
	if err != nil {
		return writeErr("create application", err)
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id uint) (*models.JobApplication, error) {
	var a models.JobApplication
	if err := s.db.WithContext(ctx).Preload("JobListing").First(&a, id).Error; err != nil {
		return nil, lookupErr("application", err)
	}
	return &a, nil
}

func (s *Store) ListApplicationsByUser(ctx context.Context, userID uint) ([]models.JobApplication, error) {
	var out []models.JobApplication
	err := s.db.WithContext(ctx).
		Preload("JobListing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		if degraded("list applications", err) {
			return []models.JobApplication{}, nil
		}
		return nil, listErr("list applications", err)
	}
	return out, nil
}

func (s *Store) ListAllApplications(ctx context.Context) ([]models.JobApplication, error) {
	var out []models.JobApplication
	if err := s.db.WithContext(ctx).Preload("JobListing").Order("created_at DESC").Find(&out).Error; err != nil {
		if degraded("list all applications", err) {
			return []models.JobApplication{}, nil
		}
		return nil, listErr("list all applications", err)
	}
	return out, nil
}

func (s *Store) ListApplicationsByStatus(ctx context.Context, status string) ([]models.JobApplication, error) {
	var out []models.JobApplication
	err := s.db.WithContext(ctx).
		Preload("JobListing").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, writeErr("list applications by status", err)
	}
	return out, nil
}

// SetApplicationStatus changes the status and records an audit event.
func (s *Store) SetApplicationStatus(ctx context.Context, id uint, status, eventType, details string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.JobApplication
		if err := tx.First(&app, id).Error; err != nil {
			return err
		}
		fields := map[string]interface{}{"status": status}
		if status == models.ApplicationSent && app.SentAt == nil {
			fields["sent_at"] = time.Now()
		}
		if err := tx.Model(&app).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Create(&models.ApplicationEvent{
			ApplicationID: id,
			EventType:     eventType,
			Details:       details,
		}).Error
	})
	if err != nil {
		return writeErr("set application status", err)
	}
	return nil
}

func (s *Store) DueDeliveryTasks(ctx context.Context, now time.Time, limit int) ([]models.DeliveryTask, error) {
	var tasks []models.DeliveryTask
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.TaskQueued, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, writeErr("due delivery tasks", err)
	}
	return tasks, nil
}

// CompleteDelivery marks the application sent and closes the task.
func (s *Store) CompleteDelivery(ctx context.Context, task models.DeliveryTask, sentAt time.Time, payload string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.JobApplication{}).
			Where("id = ? AND status = ?", task.ApplicationID, models.ApplicationPending).
			Updates(map[string]interface{}{
				"status":           models.ApplicationSent,
				"sent_at":          sentAt,
				"response_payload": payload,
				"error_message":    "",
			}).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.DeliveryTask{}).Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"status":   models.TaskDone,
				"attempts": task.Attempts + 1,
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.ApplicationEvent{
			ApplicationID: task.ApplicationID,
			EventType:     models.EventDelivered,
			Details:       fmt.Sprintf("Delivered on attempt %d", task.Attempts+1),
		}).Error
	})
	if err != nil {
		return writeErr("complete delivery", err)
	}
	return nil
}

// RescheduleDelivery records a failed attempt that will be retried at next.
func (s *Store) RescheduleDelivery(ctx context.Context, task models.DeliveryTask, next time.Time, reason string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DeliveryTask{}).Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"attempts":        task.Attempts + 1,
				"next_attempt_at": next,
				"last_error":      reason,
			}).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.JobApplication{}).Where("id = ?", task.ApplicationID).
			Updates(map[string]interface{}{
				"retry_count":   gorm.Expr("retry_count + ?", 1),
				"error_message": reason,
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.ApplicationEvent{
			ApplicationID: task.ApplicationID,
			EventType:     models.EventDeliveryRetry,
			Details:       fmt.Sprintf("Attempt %d failed: %s", task.Attempts+1, reason),
		}).Error
	})
	if err != nil {
		return writeErr("reschedule delivery", err)
	}
	return nil
}

// FailDelivery gives up on the task and marks the application failed.
func (s *Store) FailDelivery(ctx context.Context, task models.DeliveryTask, reason string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DeliveryTask{}).Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"status":     models.TaskDead,
				"attempts":   task.Attempts + 1,
				"last_error": reason,
			}).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.JobApplication{}).
			Where("id = ? AND status = ?", task.ApplicationID, models.ApplicationPending).
			Updates(map[string]interface{}{
				"status":        models.ApplicationFailed,
				"retry_count":   gorm.Expr("retry_count + ?", 1),
				"error_message": reason,
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.ApplicationEvent{
			ApplicationID: task.ApplicationID,
			EventType:     models.EventDeliveryFailed,
			Details:       fmt.Sprintf("Gave up after %d attempts: %s", task.Attempts+1, reason),
		}).Error
	})
	if err != nil {
		return writeErr("fail delivery", err)
	}
	return nil
}

// CloseDeliveryTask ends a task whose application left the pending state.
func (s *Store) CloseDeliveryTask(ctx context.Context, taskID uint) error {
	err := s.db.WithContext(ctx).Model(&models.DeliveryTask{}).
		Where("id = ?", taskID).
		Update("status", models.TaskDone).Error
	if err != nil {
		return writeErr("close delivery task", err)
	}
	return nil
}
