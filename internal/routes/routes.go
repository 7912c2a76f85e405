package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/auth"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/handlers"
	"github.com/justsurfingit/carreira-ia/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Public  *handlers.PublicHandler
	Resumes *handlers.ResumeHandler
	Users   *handlers.UserHandler
	Jobs    *handlers.JobHandler
	Billing *handlers.BillingHandler
	Admin   *handlers.AdminHandler
}

// Options configures the router. UploadsDir, when set, is served at UploadsPath.
type Options struct {
	AllowedOrigins []string
	UploadsDir     string
	UploadsPath    string
}

func SetupRouter(opts Options, tokens *auth.TokenManager, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.UploadsDir != "" && opts.UploadsPath != "" {
		r.Static(opts.UploadsPath, opts.UploadsDir)
	}

	api := r.Group("/api/v1")
	api.GET("/health", handlers.HealthCheck)

	public := api.Group("/public")
	{
		public.GET("/plans", h.Public.GetPlans)
		public.GET("/testimonials", h.Public.GetTestimonials)
		public.GET("/faqs", h.Public.GetFaqs)
	}

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", middleware.JWTAuth(tokens), h.Auth.Me)

	// raw body, signed by Stripe
	api.POST("/webhooks/stripe", h.Billing.StripeWebhook)

	authed := api.Group("/", middleware.JWTAuth(tokens))
	ResumeRoutes(authed, h.Resumes)
	UserRoutes(authed, h.Users)
	JobRoutes(authed, h.Jobs)
	BillingRoutes(authed, h.Billing)
	AdminRoutes(authed, h.Admin)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// FromConfig builds router options from the server and storage config.
func FromConfig(server config.ServerConfig, storage config.StorageConfig) Options {
	opts := Options{AllowedOrigins: server.AllowedOrigins}
	if storage.Provider == "local" {
		opts.UploadsDir = storage.LocalDir
		opts.UploadsPath = storage.PublicBaseURL
	}
	return opts
}
