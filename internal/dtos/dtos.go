package dtos

type LoginRequest struct {
	Assertion string `json:"assertion" binding:"required"`
}

type UploadResumeRequest struct {
	FileName      string `json:"file_name" binding:"required"`
	ContentBase64 string `json:"content_base64" binding:"required"`
}

type SearchJobsRequest struct {
	Query     string `json:"query" binding:"required"`
	Location  string `json:"location"`
	SalaryMin int    `json:"salary_min"`
	SalaryMax int    `json:"salary_max"`
}

type ApplyRequest struct {
	ResumeID uint `json:"resume_id" binding:"required"`
}

type CheckoutRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
}

type CreateIntegrationRequest struct {
	Platform    string `json:"platform" binding:"required"`
	PlatformURL string `json:"platform_url"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// PlanRequest is shared by plan create and update; nil fields are left alone on update.
type PlanRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *string  `json:"price"`
	Currency        *string  `json:"currency"`
	MaxApplications *int     `json:"max_applications"`
	HasAIAnalysis   *bool    `json:"has_ai_analysis"`
	Features        []string `json:"features"`
	IsActive        *bool    `json:"is_active"`
}

type AssignPlanRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
