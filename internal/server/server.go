// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/profanity"
	"quill/internal/repository"
	"quill/internal/scheduler"
	"quill/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// tokenCacheTTL bounds staleness of the token→user cache used by AuthRequired.
const tokenCacheTTL = 5 * time.Minute

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	queue *scheduler.Queue
	prom  *fiberprometheus.FiberPrometheus

	authService      *service.AuthService
	postService      *service.PostService
	commentService   *service.CommentService
	analyticsService *service.AnalyticsService
	autoReplyService *service.AutoReplyService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient, profanity.NewDetector()), nil
}

// NewServerWithDeps wires the server on top of pre-built dependencies. Tests
// use it to inject an in-memory database, miniredis, and a fake detector.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, detector profanity.Detector) *Server {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	queue := scheduler.NewQueue(redisClient, time.Duration(cfg.AutoReplyPollSeconds)*time.Second)

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		queue:            queue,
		prom:             observability.InitMetrics("quill"),
		authService:      service.NewAuthService(userRepo, tokenRepo),
		postService:      service.NewPostService(postRepo, detector, cfg.MediaRoot),
		commentService:   service.NewCommentService(commentRepo, postRepo, detector),
		analyticsService: service.NewAnalyticsService(commentRepo),
		autoReplyService: service.NewAutoReplyService(postRepo, commentRepo, userRepo, detector, queue),
	}

	queue.Bind(func(ctx context.Context, job scheduler.Job) error {
		return s.autoReplyService.Execute(ctx, job.PostID, job.UserID)
	})

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus HTTP metrics + /metrics endpoint
	s.prom.RegisterAt(app, "/metrics")
	app.Use(observability.MetricsMiddleware(s.prom))

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.Liveness)
	app.Get("/health/ready", s.Readiness)

	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Runtime dashboard
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Quill Backend Metrics",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Everything under /posts requires a bearer token
	posts := api.Group("/posts", s.AuthRequired())

	posts.Post("/create", middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/list", s.GetPosts)
	posts.Get("/detail/:id", s.GetPost)
	posts.Put("/update/:id", s.UpdatePost)
	posts.Delete("/delete/:id", s.DeletePost)
	posts.Post("/upload-image/:id", s.UploadPostImage)
	posts.Post("/enable-auto-reply/:id", s.EnableAutoReply)

	posts.Post("/comment/create", middleware.RateLimit(s.redis, 30, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/comment/list", s.GetComments)
	posts.Get("/comment/detail/:id", s.GetComment)
	posts.Put("/comment/update/:id", s.UpdateComment)
	posts.Delete("/comment/delete/:id", s.DeleteComment)

	posts.Get("/comments-daily-breakdown", s.CommentsDailyBreakdown)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Quill",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Liveness reports that the process is up.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness reports whether the server can serve traffic. The database is
// required; Redis is optional everywhere it is used, so it does not gate
// readiness.
func (s *Server) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// AuthRequired returns the bearer-token authentication middleware. Tokens are
// opaque keys resolved against the database, with a short-TTL Redis cache in
// front.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenKey := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenKey = parts[1]
			}
		}

		if tokenKey == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		cacheKey := "auth:token:" + tokenKey
		var userID uint
		if hit, _ := cache.GetJSON(c.Context(), cacheKey, &userID); hit {
			c.Locals("userID", userID)
			return c.Next()
		}

		user, err := s.authService.ResolveToken(c.Context(), tokenKey)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token"))
		}

		_ = cache.SetJSON(c.Context(), cacheKey, user.ID, tokenCacheTTL)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// respondServiceError maps a service error to the endpoint's HTTP status. The
// base mapping follows the error code; overrides cover the endpoints whose
// contract deviates (e.g. create-post reports a taken title as 404).
func respondServiceError(c *fiber.Ctx, err error, overrides map[string]int) error {
	code := models.CodeOf(err)
	status := fiber.StatusInternalServerError
	switch code {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeBlocked, models.CodeInvalidRange, models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case models.CodeConflict:
		status = fiber.StatusConflict
	}
	if override, ok := overrides[code]; ok {
		status = override
	}
	return models.RespondWithError(c, status, err)
}

// StartWorker launches the auto-reply queue worker.
func (s *Server) StartWorker(ctx context.Context) {
	s.queue.Start(ctx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.queue.Stop()

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
