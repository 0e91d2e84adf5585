package main

import (
	"context"
	"log"

	"strmly/config"
	"strmly/internal/redis"
	"strmly/internal/server"
	"strmly/internal/storage"
	"strmly/pkg/database"
	"strmly/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.IsProduction() {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	database.Connect(cfg)
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		l.Logger.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()

	store, err := storage.NewMediaStore(ctx, cfg)
	if err != nil {
		l.Logger.Fatal("media store init failed", zap.String("driver", cfg.MediaDriver), zap.Error(err))
	}
	l.Infof("Media store: %s", store.Name())

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		l.Infof("Rate limiting enabled via redis %s:%s", cfg.RedisHost, cfg.RedisPort)
	} else {
		l.Warnf("REDIS_ENABLED=false, rate limiting is off")
	}

	srv, err := server.NewApp(cfg, l, server.AppDeps{
		DB:    database.DB,
		Store: store,
		Redis: redisClient,
	})
	if err != nil {
		l.Logger.Fatal("server init failed", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		l.Errorf("server stopped with error: %s", err)
	}
}
