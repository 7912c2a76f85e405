package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/handlers"
	"github.com/justsurfingit/carreira-ia/internal/middleware"
)

func ResumeRoutes(rg *gin.RouterGroup, h *handlers.ResumeHandler) {
	resumes := rg.Group("/resumes")
	{
		resumes.POST("", h.Upload)
		resumes.GET("/duplicates", h.FindDuplicates)
		resumes.DELETE("/duplicates", h.DeleteDuplicates)
		resumes.POST("/:id/analyze", h.Analyze)
		resumes.POST("/:id/improve", h.Improve)
	}
}

func UserRoutes(rg *gin.RouterGroup, h *handlers.UserHandler) {
	user := rg.Group("/user")
	{
		user.GET("/profile", h.GetProfile)
		user.GET("/resumes", h.GetResumes)
		user.GET("/applications", h.GetApplications)
		user.GET("/integrations", h.GetIntegrations)
		user.POST("/integrations", h.CreateIntegration)
		user.DELETE("/integrations/:id", h.DeleteIntegration)
	}
}

func JobRoutes(rg *gin.RouterGroup, h *handlers.JobHandler) {
	jobs := rg.Group("/jobs")
	{
		jobs.POST("/search", h.SearchJobs)
		jobs.POST("/:id/apply", h.ApplyToJob)
	}
}

func BillingRoutes(rg *gin.RouterGroup, h *handlers.BillingHandler) {
	billing := rg.Group("/billing")
	{
		billing.POST("/checkout", h.CreateCheckout)
		billing.GET("/subscription", h.GetSubscription)
	}
}

func AdminRoutes(rg *gin.RouterGroup, h *handlers.AdminHandler) {
	admin := rg.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/plans", h.ListPlans)
		admin.POST("/plans", h.CreatePlan)
		admin.PUT("/plans/:id", h.UpdatePlan)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id/plan", h.AssignPlan)

		admin.GET("/resumes", h.ListResumes)
		admin.POST("/resumes/:id/analyze", h.AnalyzeResume)

		admin.GET("/applications", h.ListApplications)
		admin.PUT("/applications/:id/status", h.SetApplicationStatus)
	}
}
