package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/config"
	"github.com/fixlane/marketplace-api/internal/database"
	"github.com/fixlane/marketplace-api/internal/http/handler"
	"github.com/fixlane/marketplace-api/internal/http/middleware"

	_ "github.com/fixlane/marketplace-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	jobHandler          *handler.JobHandler
	lifecycleHandler    *handler.JobLifecycleHandler
	quoteHandler        *handler.QuoteHandler
	messageHandler      *handler.MessageHandler
	progressHandler     *handler.ProgressHandler
	feedbackHandler     *handler.FeedbackHandler
	notificationHandler *handler.NotificationHandler
	fileHandler         *handler.FileHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	jobHandler *handler.JobHandler,
	lifecycleHandler *handler.JobLifecycleHandler,
	quoteHandler *handler.QuoteHandler,
	messageHandler *handler.MessageHandler,
	progressHandler *handler.ProgressHandler,
	feedbackHandler *handler.FeedbackHandler,
	notificationHandler *handler.NotificationHandler,
	fileHandler *handler.FileHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		jobHandler:          jobHandler,
		lifecycleHandler:    lifecycleHandler,
		quoteHandler:        quoteHandler,
		messageHandler:      messageHandler,
		progressHandler:     progressHandler,
		feedbackHandler:     feedbackHandler,
		notificationHandler: notificationHandler,
		fileHandler:         fileHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Jobs
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Post("/", rt.jobHandler.Create)
				r.Get("/summary", rt.jobHandler.Summary)
				r.Get("/statuses", rt.jobHandler.Statuses)
				r.Get("/{id}", rt.jobHandler.Get)

				// Lifecycle transitions
				r.Post("/{id}/assign", rt.lifecycleHandler.Assign)
				r.Post("/{id}/unassign", rt.lifecycleHandler.Unassign)
				r.Post("/{id}/respond", rt.lifecycleHandler.Respond)
				r.Post("/{id}/payment/confirm", rt.lifecycleHandler.ConfirmPayment)
				r.Post("/{id}/start", rt.lifecycleHandler.StartWork)
				r.Post("/{id}/cancel", rt.lifecycleHandler.Cancel)

				// Quotes
				r.Get("/{id}/quotes", rt.quoteHandler.List)
				r.Post("/{id}/quotes", rt.quoteHandler.Send)
				r.Post("/{id}/quotes/{quoteId}/accept", rt.lifecycleHandler.AcceptQuote)
				r.Post("/{id}/quotes/{quoteId}/reject", rt.lifecycleHandler.RejectQuote)

				// Chat log
				r.Get("/{id}/messages", rt.messageHandler.List)
				r.Post("/{id}/messages", rt.messageHandler.Post)

				// Work log
				r.Get("/{id}/progress", rt.progressHandler.List)
				r.Post("/{id}/progress", rt.lifecycleHandler.PostProgress)

				// Feedback
				r.Get("/{id}/feedback", rt.feedbackHandler.Get)
				r.Post("/{id}/feedback", rt.feedbackHandler.Submit)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Post("/{id}/read", rt.notificationHandler.MarkRead)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Post("/", rt.fileHandler.Upload)
				r.Get("/{id}", rt.fileHandler.Download)
			})
		})
	})

	return r
}
