package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/justsurfingit/carreira-ia/internal/advisor"
	"github.com/justsurfingit/carreira-ia/internal/auth"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/database"
	"github.com/justsurfingit/carreira-ia/internal/handlers"
	"github.com/justsurfingit/carreira-ia/internal/jobsearch"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/notify"
	"github.com/justsurfingit/carreira-ia/internal/routes"
	"github.com/justsurfingit/carreira-ia/internal/secrets"
	"github.com/justsurfingit/carreira-ia/internal/services"
	"github.com/justsurfingit/carreira-ia/internal/storage"
	"github.com/justsurfingit/carreira-ia/internal/store"
	"google.golang.org/api/gmail/v1"
)

func main() {
	// 1. Config (.env, configs/config.yaml, env overrides)
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}
	logger.Setup(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	st := store.New(db)

	// 3. Core dependencies
	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Log.WithError(err).Fatal("storage init failed")
	}
	adv, closeAdvisor, err := newAdvisor(ctx, cfg.AI)
	if err != nil {
		logger.Log.WithError(err).Fatal("AI client init failed")
	}
	defer closeAdvisor()

	sealer, err := secrets.NewSealerFromString(cfg.Integrations.EncryptionKey)
	if err != nil {
		logger.Log.WithError(err).Fatal("integration key invalid")
	}
	tokens := auth.NewTokenManager(cfg.Auth)
	alerts := notify.New(cfg.Telegram)

	adzuna := jobsearch.NewAdzuna(cfg.Adzuna, nil)
	if !adzuna.Enabled() {
		logger.LogWarn("Adzuna credentials not set, job search uses the built-in catalog")
	}

	// 4. Services
	resumes := services.NewResumeService(st, blobs, adv)
	applications := services.NewApplicationService(st)
	catalog := services.NewCatalogService(st)
	billing := services.NewBillingService(st, services.NewStripeGateway(cfg.Stripe), alerts, cfg.Stripe)
	integrations := services.NewIntegrationService(st, sealer)
	delivery := services.NewDeliveryService(st, services.SimulatedDeliverer{}, alerts, cfg.Delivery)
	delivery.Credentials = integrations
	inbox := services.NewInboxService(st, newGmail(ctx, cfg.Inbox), services.NewMatcherService(), services.NewReplyClassifier(adv), cfg.Inbox)

	// 5. Handlers & router
	router := routes.SetupRouter(routes.FromConfig(cfg.Server, cfg.Storage), tokens, routes.Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(st, tokens, cfg.Auth.OwnerOpenID)),
		Public:  handlers.NewPublicHandler(catalog),
		Resumes: handlers.NewResumeHandler(resumes),
		Users:   handlers.NewUserHandler(services.NewProfileService(st), integrations),
		Jobs:    handlers.NewJobHandler(services.NewJobSearchService(st, adzuna), applications),
		Billing: handlers.NewBillingHandler(billing),
		Admin:   handlers.NewAdminHandler(services.NewAdminService(st), catalog, resumes, applications),
	})

	// 6. Background workers
	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		delivery.Run(ctx)
	}()
	go func() {
		defer workers.Done()
		inbox.Run(ctx)
	}()

	// 7. Serve until a signal arrives
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.LogInfo("Server starting on port " + cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "graceful shutdown failed")
	}
	workers.Wait()

	if err := st.Close(); err != nil {
		logger.LogError(err, "failed to close database")
		os.Exit(1)
	}
	logger.LogSuccess("Shutdown complete")
}

// newAdvisor picks the AI backend. The returned func releases it.
func newAdvisor(ctx context.Context, cfg config.AIConfig) (advisor.Client, func(), error) {
	switch cfg.Provider {
	case "gemini":
		g, err := advisor.NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		lc, err := advisor.NewGoogleAI(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return lc, func() {}, nil
	}
}

// newGmail returns nil when the inbox watcher is off or not authorized yet.
func newGmail(ctx context.Context, cfg config.InboxConfig) *gmail.Service {
	if !cfg.Enabled {
		return nil
	}
	client, err := auth.NewGmailService(ctx, cfg.CredentialsPath, cfg.TokenPath)
	if err != nil {
		logger.LogError(err, "Gmail client unavailable, run cmd/gmailauth to authorize the mailbox")
		return nil
	}
	logger.LogSuccess("Gmail service connected")
	return client
}
