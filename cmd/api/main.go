package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/docs"
	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/config"
	"github.com/fixlane/marketplace-api/internal/database"
	"github.com/fixlane/marketplace-api/internal/http/handler"
	"github.com/fixlane/marketplace-api/internal/http/middleware"
	"github.com/fixlane/marketplace-api/internal/http/router"
	"github.com/fixlane/marketplace-api/internal/jobs"
	"github.com/fixlane/marketplace-api/internal/logger"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/service"
	"github.com/fixlane/marketplace-api/internal/storage"
)

// @title Fixlane Marketplace API
// @version 1.0
// @description Job lifecycle API for the home-services marketplace: assignments, quoting, payment, work progress and chat.

// @contact.name API Support
// @contact.email support@fixlane.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for machine callers (payment confirmation)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "marketplace-api-staging.fixlane.io"
	case "production":
		docs.SwaggerInfo.Host = "api.fixlane.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	jobRepo := repository.NewJobRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Services
	jobService := service.NewJobService(jobRepo, userRepo, log)
	lifecycleService := service.NewJobLifecycleService(db, jobRepo, quoteRepo, messageRepo, progressRepo, notificationRepo, userRepo, log)
	quoteService := service.NewQuoteService(db, jobRepo, quoteRepo, messageRepo, log)
	messageService := service.NewMessageService(jobRepo, quoteRepo, messageRepo, log)
	progressService := service.NewProgressService(jobRepo, progressRepo)
	feedbackService := service.NewFeedbackService(jobRepo, feedbackRepo, log)
	notificationService := service.NewNotificationService(notificationRepo)
	fileService := service.NewFileService(fileRepo, fileStorage, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	jobHandler := handler.NewJobHandler(jobService, log)
	lifecycleHandler := handler.NewJobLifecycleHandler(lifecycleService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	messageHandler := handler.NewMessageHandler(messageService, log)
	progressHandler := handler.NewProgressHandler(progressService, log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		jobHandler,
		lifecycleHandler,
		quoteHandler,
		messageHandler,
		progressHandler,
		feedbackHandler,
		notificationHandler,
		fileHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterQuoteExpiryJob(
			scheduler,
			quoteService,
			log,
			cfg.Scheduler.QuoteExpiryCron,
			2*time.Minute,
		); err != nil {
			log.Error("failed to register quote expiry job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("scheduler started",
				zap.String("quote_expiry_cron", cfg.Scheduler.QuoteExpiryCron),
			)
		}
	} else {
		log.Info("scheduler disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
