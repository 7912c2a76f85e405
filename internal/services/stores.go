package services

import (
	"context"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

// The interfaces below are the slices of *store.Store each service needs.

type UserReader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetPlan(ctx context.Context, id uint) (*models.SubscriptionPlan, error)
}

type ResumeStore interface {
	UserReader
	CreateResume(ctx context.Context, r *models.Resume) error
	GetResume(ctx context.Context, id uint) (*models.Resume, error)
	ListResumesByUser(ctx context.Context, userID uint) ([]models.Resume, error)
	UpdateResume(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteResumes(ctx context.Context, userID uint, ids []uint) (int64, error)
}

type ApplicationStore interface {
	UserReader
	GetResume(ctx context.Context, id uint) (*models.Resume, error)
	GetJobListing(ctx context.Context, id uint) (*models.JobListing, error)
	HasApplication(ctx context.Context, userID, jobListingID uint) (bool, error)
	CountApplicationsByUser(ctx context.Context, userID uint) (int64, error)
	CreateApplicationWithTask(ctx context.Context, app *models.JobApplication) error
	SetApplicationStatus(ctx context.Context, id uint, status, eventType, details string) error
}

type DeliveryStore interface {
	DueDeliveryTasks(ctx context.Context, now time.Time, limit int) ([]models.DeliveryTask, error)
	GetApplication(ctx context.Context, id uint) (*models.JobApplication, error)
	CompleteDelivery(ctx context.Context, task models.DeliveryTask, sentAt time.Time, payload string) error
	RescheduleDelivery(ctx context.Context, task models.DeliveryTask, next time.Time, reason string) error
	FailDelivery(ctx context.Context, task models.DeliveryTask, reason string) error
	CloseDeliveryTask(ctx context.Context, taskID uint) error
}

type JobSearchStore interface {
	ListResumesByUser(ctx context.Context, userID uint) ([]models.Resume, error)
	SaveJobListing(ctx context.Context, l *models.JobListing) error
}

type BillingStore interface {
	UserReader
	IsEventProcessed(ctx context.Context, id string) (bool, error)
	RecordEvent(ctx context.Context, id, eventType string) error
	FindUserByStripeCustomer(ctx context.Context, customerID string) (*models.User, error)
	FindPlanByName(ctx context.Context, name string) (*models.SubscriptionPlan, error)
	UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) error
}

type IntegrationStore interface {
	CreateIntegration(ctx context.Context, in *models.Integration) error
	ListIntegrationsByUser(ctx context.Context, userID uint) ([]models.Integration, error)
	GetIntegration(ctx context.Context, id uint) (*models.Integration, error)
	DeleteIntegration(ctx context.Context, userID, id uint) error
}

type CatalogStore interface {
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id uint) (*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubscriptionPlan, error)
	ListVisibleTestimonials(ctx context.Context) ([]models.Testimonial, error)
	ListVisibleFaqs(ctx context.Context) ([]models.Faq, error)
}

type AdminStore interface {
	UserReader
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) error
	ListResumesByUser(ctx context.Context, userID uint) ([]models.Resume, error)
	ListApplicationsByUser(ctx context.Context, userID uint) ([]models.JobApplication, error)
	ListIntegrationsByUser(ctx context.Context, userID uint) ([]models.Integration, error)
	ListAllResumes(ctx context.Context) ([]models.Resume, error)
	ListAllApplications(ctx context.Context) ([]models.JobApplication, error)
}

type AuthStore interface {
	UpsertUser(ctx context.Context, in models.User, ownerOpenID string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type ProfileStore interface {
	UserReader
	ListResumesByUser(ctx context.Context, userID uint) ([]models.Resume, error)
	ListApplicationsByUser(ctx context.Context, userID uint) ([]models.JobApplication, error)
}

type InboxStore interface {
	IsEmailProcessed(ctx context.Context, id string) (bool, error)
	RecordEmail(ctx context.Context, id string) error
	MailboxHistoryID(ctx context.Context, mailbox string) (uint64, error)
	SaveMailboxHistoryID(ctx context.Context, mailbox string, historyID uint64) error
	ListApplicationsByStatus(ctx context.Context, status string) ([]models.JobApplication, error)
	SetApplicationStatus(ctx context.Context, id uint, status, eventType, details string) error
}
