package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/handlers"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// The cache is an optimization; a dead Redis must not keep the service down.
	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
		cacheService = cache.NewNoopCache()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	eventPublisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(repo, logger, validator, eventPublisher, cacheService)
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	authMiddleware := handlers.NewAuthMiddleware(cfg, logger)
	handlerManager.SetupRoutes(router, authMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server shutdown gracefully")
}
