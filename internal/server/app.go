package server

import (
	"context"

	"strmly/config"
	"strmly/internal/handler"
	"strmly/internal/redis"
	"strmly/internal/repository"
	"strmly/internal/services"
	"strmly/internal/storage"
	"strmly/pkg/database"
	"strmly/pkg/events"
	"strmly/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppDeps are the external resources the API runs on.
type AppDeps struct {
	DB    *gorm.DB
	Store storage.MediaStore
	// Redis is optional. Without it there is no rate limiting, no user cache and no upload events.
	Redis *goredis.Client
}

// NewApp wires repositories, services and handlers and registers every route.
func NewApp(cfg *config.Config, l *logger.Logger, deps AppDeps) (*Server, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(deps.DB)
	videoRepo := repository.NewVideoRepository(deps.DB)

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	userService.UseLogger(l)
	feedService := services.NewFeedService(videoRepo)
	uploadOpts := []services.UploadOption{
		services.WithUploadFolder(cfg.MediaFolder),
		services.WithMaxUploadBytes(cfg.MediaMaxBytes),
	}

	var limiter *redis.RateLimiter
	if deps.Redis != nil {
		uploadOpts = append(uploadOpts, services.WithPublisher(events.NewRedisBroker(deps.Redis, l)))
		limiter = redis.NewRateLimiter(deps.Redis, redis.DefaultRateLimitConfig())
		cache := redis.NewUserCache(deps.Redis, redis.DefaultUserTTL)
		authService.UseCache(cache)
		userService.UseCache(cache)
	}
	uploadService := services.NewUploadService(videoRepo, deps.Store, l, uploadOpts...)

	storeName := ""
	if deps.Store != nil {
		storeName = deps.Store.Name()
	}
	db := deps.DB
	ping := func(ctx context.Context) error { return database.PingContext(ctx, db) }

	srv := New(cfg, l)
	srv.SetupRoutes(&Handlers{
		Auth:   handler.NewAuthHandler(authService, userService),
		Video:  handler.NewVideoHandler(uploadService, feedService),
		Health: handler.NewHealthHandler(ping, cfg.AppEnv, storeName),
	}, Dependencies{
		AuthService: authService,
		Limiter:     limiter,
		MediaDir:    mediaDir(cfg),
	})
	return srv, nil
}

func mediaDir(cfg *config.Config) string {
	if cfg.MediaDriver == config.MediaDriverLocal {
		return cfg.MediaLocalDir
	}
	return ""
}
