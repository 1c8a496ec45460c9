// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "levelup/docs" // swagger docs
	"levelup/internal/assistant"
	"levelup/internal/auth"
	"levelup/internal/bootstrap"
	"levelup/internal/cache"
	"levelup/internal/config"
	"levelup/internal/database"
	"levelup/internal/featureflags"
	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/notifications"
	"levelup/internal/repository"
	"levelup/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenManager
	featureFlags   *featureflags.Manager
	notifier       *notifications.Notifier

	authService         *service.AuthService
	userService         *service.UserService
	progressionService  *service.ProgressionService
	scanService         *service.ScanService
	socialService       *service.SocialService
	chatService         *service.ChatService
	notificationService *service.NotificationService
	reminderService     *service.ReminderService
	onboardingService   *service.OnboardingService
	assistantService    *service.AssistantService
	mediaService        *service.MediaService
	paymentService      *service.PaymentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// A nil Redis client runs the API without cache, rate limiting or pub/sub.
	db, redisClient, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedDemo: cfg.SeedDemo && !cfg.IsProduction(),
	})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires a config and a database")
	}

	userRepo := repository.NewUserRepository(db)
	scanRepo := repository.NewScanRepository(db)
	postRepo := repository.NewPostRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(cfg.OTELServiceName),
		tokens:         auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	userCache := cache.NewStore(redisClient, "users")
	progression := service.NewProgressionService(userRepo, userCache)

	llm := assistant.NewBreakerClient(assistant.NewHTTPClient(assistant.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	}), assistant.DefaultBreakerSettings())

	s.authService = service.NewAuthService(userRepo, s.tokens)
	s.userService = service.NewUserService(userRepo, scanRepo, userCache)
	s.progressionService = progression
	s.scanService = service.NewScanService(scanRepo, userRepo, progression, service.NewMockAnalyzer(time.Now().UnixNano()), s.featureFlags)
	s.socialService = service.NewSocialService(postRepo, userRepo, userCache)
	s.notificationService = service.NewNotificationService(notificationRepo, s.notifier)
	s.chatService = service.NewChatService(chatRepo, userRepo, s.notificationService, s.notifier, userCache)
	s.reminderService = service.NewReminderService(reminderRepo, userRepo)
	s.onboardingService = service.NewOnboardingService(userRepo, progression, userCache)
	s.assistantService = service.NewAssistantService(assistantRepo, userRepo, llm, s.featureFlags)
	s.mediaService = service.NewMediaService(mediaRepo, cfg.MediaMaxBytes)
	s.paymentService = service.NewPaymentService(
		subscriptionRepo, userRepo, cache.NewStore(redisClient, "payments"),
		cfg.PaymentsPublicKey, cfg.PaymentsSuccessURL,
	)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Bearer identity is optional everywhere; handlers decide what needs it.
	app.Use(middleware.OptionalAuth(s.tokens))

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so 429 responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	perMinute := s.config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/", s.ReadinessCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "LevelUp Backend Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", s.GetFeatureFlags)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", s.rateLimit("register", 5, 10*time.Minute), s.Register)
	authRoutes.Post("/login", s.rateLimit("login", 10, 5*time.Minute), s.Login)
	authRoutes.Get("/me", middleware.AuthRequired, s.GetMe)

	users := api.Group("/users")
	users.Get("/search", s.SearchUsers)
	users.Get("/leaderboard", s.GetLeaderboard)

	// Specific /user/:id/:resource routes before the generic /user/:id
	user := api.Group("/user")
	user.Get("/:id/stats", s.GetUserStats)
	user.Post("/:id/add-xp", s.AddXP)
	user.Get("/:id/scans", s.GetUserScans)
	user.Get("/:id/scan-stats", s.GetScanStats)
	user.Get("/:id/notifications", s.GetUserNotifications)
	user.Get("/:id/reminders", s.GetUserReminders)
	user.Get("/:id/chat-history", s.GetChatHistory)
	user.Get("/:id", s.GetUser)
	user.Patch("/:id", s.UpdateUser)
	user.Put("/:id", s.UpdateUser)

	api.Post("/scan/:type", s.rateLimit("scan", 30, time.Minute), s.SubmitScan)
	api.Post("/onboarding", s.CompleteOnboarding)

	social := api.Group("/social")
	social.Get("/feed", s.GetFeed)
	social.Post("/post", s.rateLimit("create_post", 10, time.Minute), s.CreatePost)
	social.Post("/like", s.ToggleLike)
	social.Post("/comment", s.rateLimit("create_comment", 20, time.Minute), s.AddComment)
	social.Get("/post/:id/comments", s.GetComments)
	social.Post("/share", s.SharePost)
	social.Get("/chat-rooms", s.GetChatRooms)
	social.Post("/chat-room/create", s.CreateChatRoom)
	social.Post("/join-room", s.JoinChatRoom)
	social.Post("/invite", s.InviteToRoom)

	rooms := api.Group("/chat-room")
	rooms.Post("/message", s.rateLimit("send_chat", 30, time.Minute), s.PostChatMessage)
	rooms.Post("/invite", s.InviteToRoom)
	rooms.Get("/:id/messages", s.GetChatMessages)
	rooms.Get("/:id/members", s.GetRoomMembers)

	notificationRoutes := api.Group("/notifications")
	notificationRoutes.Post("/", s.CreateNotification)
	notificationRoutes.Get("/user/:id", s.GetUserNotifications)
	notificationRoutes.Patch("/user/:id/read-all", s.MarkAllNotificationsRead)
	notificationRoutes.Patch("/:id/read", s.MarkNotificationRead)

	reminders := api.Group("/reminders")
	reminders.Post("/", s.CreateReminder)
	reminders.Get("/user/:id", s.GetUserReminders)
	reminders.Patch("/:id", s.UpdateReminder)
	reminders.Put("/:id", s.UpdateReminder)
	reminders.Delete("/:id", s.DeleteReminder)

	api.Post("/chat", s.rateLimit("assistant_chat", 20, time.Minute), s.AssistantChat)

	media := api.Group("/media")
	media.Post("/upload", s.rateLimit("media_upload", 20, time.Minute), s.UploadMedia)
	media.Get("/:id", s.GetMedia)

	payments := api.Group("/payments")
	payments.Get("/config", s.GetPaymentConfig)
	payments.Get("/plans", s.GetPlans)
	payments.Post("/create-checkout-session", s.CreateCheckoutSession)
	payments.Post("/webhook", s.PaymentWebhook)
	payments.Get("/subscription/:user_id", s.GetSubscription)
	payments.Post("/activate", s.ActivateSubscription)
	payments.Post("/cancel", s.CancelSubscription)
}

func (s *Server) rateLimit(name string, limit int, window time.Duration) fiber.Handler {
	return middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name:   name,
		Limit:  limit,
		Window: window,
		Policy: middleware.FailOpen,
		Env:    s.config.Env,
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so its
// absence is reported without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the fiber app with middleware and routes. Start serves it.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "LevelUp API",
		// Uploads get headroom above the media limit so oversize files reach
		// the handler and are rejected with the API error shape.
		BodyLimit: s.config.MediaMaxBytes*2 + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
