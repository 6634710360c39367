// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"azaunur/internal/cache"
	"azaunur/internal/config"
	"azaunur/internal/database"
	"azaunur/internal/middleware"
	"azaunur/internal/models"
	"azaunur/internal/repository"
	"azaunur/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	engagementRepo   repository.EngagementRepository
	followRepo       repository.FollowRepository
	blockRepo        repository.BlockRepository
	notificationRepo repository.NotificationRepository
	messageRepo      repository.MessageRepository
	moderationRepo   repository.ModerationRepository

	visibilityService   *service.VisibilityService
	engagementService   *service.EngagementService
	feedService         *service.FeedService
	notificationService *service.NotificationService
	postService         *service.PostService
	commentService      *service.CommentService
	followService       *service.FollowService
	chatService         *service.ChatService
	userService         *service.UserService
	moderationService   *service.ModerationService
	imageService        *service.ImageService
}

// NewServer creates a server instance, establishing its own database and
// Redis connections.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap layers use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("azaunur-api"),

		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		engagementRepo:   repository.NewEngagementRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		blockRepo:        repository.NewBlockRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		moderationRepo:   repository.NewModerationRepository(db),
	}

	s.visibilityService = service.NewVisibilityService(s.blockRepo)
	s.imageService = service.NewImageService(cfg)
	s.notificationService = service.NewNotificationService(s.notificationRepo, s.userRepo)
	s.engagementService = service.NewEngagementService(db, s.postRepo, s.commentRepo, s.engagementRepo)
	s.feedService = service.NewFeedService(s.postRepo, s.userRepo, s.engagementRepo, s.visibilityService)
	s.userService = service.NewUserService(s.userRepo, s.postRepo, s.followRepo, s.blockRepo, s.imageService, s.visibilityService)
	s.postService = service.NewPostService(db, s.postRepo, s.commentRepo, s.imageService, s.visibilityService, s.userService.IsAdmin)
	s.commentService = service.NewCommentService(db, s.postRepo, s.commentRepo, s.userService.IsAdmin)
	s.followService = service.NewFollowService(db, s.userRepo, s.followRepo, s.visibilityService)
	s.chatService = service.NewChatService(s.userRepo, s.messageRepo, s.visibilityService)
	s.moderationService = service.NewModerationService(db, s.userRepo, s.moderationRepo)

	middleware.InitMiddleware(cfg)

	return s, nil
}

// SetupMiddleware configures the middleware stack for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(s.promMiddleware.Middleware)
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting per IP. Preflight requests pass through.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
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

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	s.promMiddleware.RegisterAt(app, "/metrics")

	if s.config.MediaDir != "" {
		app.Static("/media", s.config.MediaDir)
	}

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	protected := api.Group("", middleware.AuthRequired, s.ActiveRequired)

	protected.Get("/feed", s.GetFeed)
	protected.Get("/feed/saved", s.GetSavedFeed)
	protected.Get("/tags/:tag", s.GetTagFeed)
	protected.Get("/search", middleware.RateLimit(
		s.redis, 20, time.Minute, "search"), s.Search)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/repost", s.RepostPost)
	posts.Post("/:id/save", s.SavePost)
	posts.Post("/:id/view", s.ViewPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.LikeComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyAccount)
	users.Put("/me/settings", s.UpdateSettings)
	users.Get("/me/blocked", s.GetBlockedUsers)
	users.Post("/:id/follow", s.ToggleFollow)
	users.Post("/:id/block", s.ToggleBlock)
	users.Post("/:id/report", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "report"), s.ReportUser)
	users.Get("/:handle/followers", s.GetFollowers)
	users.Get("/:handle/following", s.GetFollowing)
	users.Get("/:handle/posts", s.GetUserPosts)
	users.Get("/:handle", s.GetProfile)

	notifications := protected.Group("/notifications")
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread", s.GetUnreadCounts)

	chats := protected.Group("/chats")
	chats.Get("/", s.GetConversations)
	chats.Get("/:userId", s.GetThread)
	chats.Post("/:userId", s.SendMessage)

	verification := protected.Group("/verification")
	verification.Post("/", s.RequestVerification)
	verification.Get("/me", s.GetMyVerification)

	admin := protected.Group("/admin")
	admin.Get("/reports", s.GetPendingReports)
	admin.Post("/reports/:id/forgive", s.ForgiveReport)
	admin.Post("/reports/:id/ban", s.BanFromReport)
	admin.Get("/verification", s.GetVerificationQueue)
	admin.Post("/verification/:id/approve", s.ApproveVerification)
	admin.Post("/verification/:id/reject", s.RejectVerification)
	admin.Post("/users/:id/verification", s.SetVerification)
	admin.Post("/users/:id/admin", s.ToggleAdmin)
	admin.Post("/users/:id/status", s.SetCustomStatus)
	admin.Get("/stats", s.GetAdminStats)
}

// ActiveRequired rejects requests from suspended accounts. Runs after
// AuthRequired so the viewer identity is already established.
func (s *Server) ActiveRequired(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user.Suspended() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(fmt.Sprintf("Account suspended until %s", user.BannedUntil.UTC().Format(time.RFC3339))))
	}
	return c.Next()
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database answers.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Start builds the Fiber app and listens until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.app = fiber.New(fiber.Config{
		AppName:      "azaunur-api",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
	})

	s.SetupMiddleware(s.app)
	s.SetupRoutes(s.app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(":" + s.config.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}
