package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strmly/config"
	"strmly/internal/handler"
	"strmly/internal/middleware"
	"strmly/internal/redis"
	"strmly/internal/services"
	"strmly/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// multipartOverhead is allowed on top of the media limit for form fields and part headers.
const multipartOverhead = 1 << 20

type Handlers struct {
	Auth   *handler.AuthHandler
	Video  *handler.VideoHandler
	Health *handler.HealthHandler
}

// Dependencies are the collaborators the routes need beyond the handlers.
type Dependencies struct {
	AuthService *services.AuthService
	// Limiter may be nil, which disables rate limiting.
	Limiter *redis.RateLimiter
	// MediaDir is served on /media when set.
	MediaDir string
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(l))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mostly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, deps Dependencies) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigins))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	s.engine.NoRoute(middleware.NotFound())

	s.engine.GET("/health", handlers.Health.Health)

	if deps.MediaDir != "" {
		s.engine.Static("/media", deps.MediaDir)
	}

	api := s.engine.Group("/")
	api.Use(middleware.GeneralRateLimit(deps.Limiter))

	requireAuth := middleware.AuthMiddleware(deps.AuthService)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", middleware.AuthRateLimit(deps.Limiter), handlers.Auth.Signup)
		auth.POST("/login", middleware.AuthRateLimit(deps.Limiter), handlers.Auth.Login)
		auth.GET("/profile", requireAuth, handlers.Auth.Profile)
		auth.PUT("/profile", requireAuth, handlers.Auth.UpdateProfile)
	}

	api.POST("/upload",
		middleware.BodyLimit(s.maxUploadBody()),
		requireAuth,
		middleware.UploadRateLimit(deps.Limiter),
		handlers.Video.Upload,
	)
	api.GET("/videos", handlers.Video.List)
	api.GET("/videos/:id", handlers.Video.Get)
	api.GET("/recommended", handlers.Video.Recommended)
	api.GET("/users/:id/videos", handlers.Video.ListByUser)
}

func (s *Server) maxUploadBody() int64 {
	limit := s.config.MediaMaxBytes
	if limit <= 0 {
		limit = services.DefaultMaxUploadBytes
	}
	return limit + multipartOverhead
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
