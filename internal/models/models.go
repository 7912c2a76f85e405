package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionCancelled = "cancelled"
)

const (
	ResumeUploaded  = "uploaded"
	ResumeAnalyzing = "analyzing"
	ResumeAnalyzed  = "analyzed"
	ResumeImproved  = "improved"
)

const (
	ApplicationPending   = "pending"
	ApplicationSent      = "sent"
	ApplicationFailed    = "failed"
	ApplicationConfirmed = "confirmed"
)

const (
	TaskQueued = "queued"
	TaskDone   = "done"
	TaskDead   = "dead"
)

const (
	EventQueued         = "QUEUED"
	EventDelivered      = "DELIVERED"
	EventDeliveryRetry  = "DELIVERY_RETRY"
	EventDeliveryFailed = "DELIVERY_FAILED"
	EventAdminOverride  = "ADMIN_OVERRIDE"
	EventEmailConfirmed = "EMAIL_CONFIRMED"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OpenID      string `gorm:"size:64;uniqueIndex;not null" json:"open_id"`
	Name        string `json:"name"`
	Email       string `gorm:"size:320" json:"email"`
	LoginMethod string `gorm:"size:64" json:"login_method"`
	Role        string `gorm:"size:16;not null;default:'user'" json:"role"`

	SubscriptionPlanID    *uint      `json:"subscription_plan_id"`
	SubscriptionStatus    string     `gorm:"size:16;not null;default:'inactive'" json:"subscription_status"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
	StripeCustomerID      string     `gorm:"size:255;index" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID  string     `gorm:"size:255" json:"stripe_subscription_id,omitempty"`
	LastSignedIn          time.Time  `json:"last_signed_in"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type SubscriptionPlan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Price           string         `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency        string         `gorm:"size:3;not null;default:'BRL'" json:"currency"`
	MaxApplications int            `gorm:"not null" json:"max_applications"`
	HasAIAnalysis   bool           `gorm:"column:has_ai_analysis;not null" json:"has_ai_analysis"`
	Features        datatypes.JSON `json:"features"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
}

type Resume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID          uint   `gorm:"index;not null" json:"user_id"`
	FileName        string `gorm:"size:255;not null" json:"file_name"`
	FileKey         string `gorm:"size:512;not null" json:"file_key"`
	FileURL         string `gorm:"type:text;not null" json:"file_url"`
	OriginalContent string `gorm:"type:text" json:"original_content"`
	AnalyzedContent string `gorm:"type:text" json:"analyzed_content"`
	ImprovedContent string `gorm:"type:text" json:"improved_content"`
	Status          string `gorm:"size:16;not null;default:'uploaded'" json:"status"`
}

type JobListing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string     `gorm:"size:255;not null" json:"title"`
	Company      string     `gorm:"size:255;not null" json:"company"`
	Description  string     `gorm:"type:text" json:"description"`
	Location     string     `gorm:"size:255" json:"location"`
	Salary       string     `gorm:"size:100" json:"salary"`
	SourceURL    string     `gorm:"size:512;index" json:"source_url"`
	SourceSite   string     `gorm:"size:100" json:"source_site"`
	Requirements string     `gorm:"type:text" json:"requirements"`
	ExternalID   string     `gorm:"size:100" json:"external_id,omitempty"`
	MatchScore   int        `json:"match_score"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
}

type JobApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint `gorm:"not null;uniqueIndex:idx_application_user_job" json:"user_id"`
	ResumeID     uint `gorm:"not null" json:"resume_id"`
	JobListingID uint `gorm:"not null;uniqueIndex:idx_application_user_job" json:"job_listing_id"`
	// Association: needs Preload()
	JobListing *JobListing `json:"job_listing,omitempty"`

	Status          string     `gorm:"size:16;not null;default:'pending'" json:"status"`
	SentAt          *time.Time `json:"sent_at"`
	ResponsePayload string     `gorm:"type:text" json:"response_payload,omitempty"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message,omitempty"`
	RetryCount      int        `gorm:"not null;default:0" json:"retry_count"`
}

type Integration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID            uint       `gorm:"index;not null" json:"user_id"`
	Platform          string     `gorm:"size:100;not null" json:"platform"`
	PlatformURL       string     `gorm:"type:text" json:"platform_url"`
	Username          string     `gorm:"size:255" json:"username"`
	EncryptedPassword string     `gorm:"type:text" json:"-"`
	IsActive          bool       `gorm:"not null" json:"is_active"`
	LastSyncAt        *time.Time `json:"last_sync_at"`
}

type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorName   string `gorm:"size:255;not null" json:"author_name"`
	AuthorRole   string `gorm:"size:255" json:"author_role"`
	AuthorAvatar string `gorm:"type:text" json:"author_avatar,omitempty"`
	Content      string `gorm:"type:text;not null" json:"content"`
	Rating       int    `gorm:"not null;default:5" json:"rating"`
	IsVisible    bool   `gorm:"not null" json:"is_visible"`
}

type Faq struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question  string `gorm:"type:text;not null" json:"question"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
	Order     int    `gorm:"column:display_order;not null;default:0" json:"order"`
	IsVisible bool   `gorm:"not null" json:"is_visible"`
}

// DeliveryTask is the outbox row written in the same transaction as its application.
type DeliveryTask struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID uint      `gorm:"uniqueIndex;not null" json:"application_id"`
	Status        string    `gorm:"size:16;not null;index:idx_task_due,priority:1" json:"status"`
	Attempts      int       `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time `gorm:"not null;index:idx_task_due,priority:2" json:"next_attempt_at"`
	LastError     string    `gorm:"type:text" json:"last_error,omitempty"`
}

type ApplicationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID uint      `gorm:"index" json:"application_id"`
	EventType     string    `gorm:"size:32" json:"event_type"`
	Details       string    `gorm:"type:text" json:"details"`
}

// ProcessedEvent records billing webhook event ids that were already applied.
type ProcessedEvent struct {
	ID        string `gorm:"primaryKey;size:255"`
	Type      string `gorm:"size:100"`
	CreatedAt time.Time
}

type ProcessedEmail struct {
	ID        string `gorm:"primaryKey;size:255"`
	CreatedAt time.Time
}

type MailboxCursor struct {
	ID            uint   `gorm:"primaryKey"`
	Mailbox       string `gorm:"size:255;uniqueIndex;not null"`
	LastHistoryID uint64
	UpdatedAt     time.Time
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&SubscriptionPlan{},
		&User{},
		&Resume{},
		&JobListing{},
		&JobApplication{},
		&Integration{},
		&Testimonial{},
		&Faq{},
		&DeliveryTask{},
		&ApplicationEvent{},
		&ProcessedEvent{},
		&ProcessedEmail{},
		&MailboxCursor{},
	}
}
