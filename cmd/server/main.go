package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bazely/bazely-backend/config"
	"github.com/bazely/bazely-backend/internal/app/controller"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/internal/db"
	"github.com/bazely/bazely-backend/internal/middleware"
	"github.com/bazely/bazely-backend/internal/router"
	"github.com/bazely/bazely-backend/internal/scheduler"
	"github.com/bazely/bazely-backend/internal/storage"
	"github.com/bazely/bazely-backend/pkg/announce"
	"github.com/bazely/bazely-backend/pkg/logger"
	"github.com/bazely/bazely-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Bazely Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it logout degrades to token expiry.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token blacklist disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// The feed announcer stays inert when credentials are missing.
	announcer := announce.NewClient(announce.Config{
		ConsumerKey:       cfg.Announcer.ConsumerKey,
		ConsumerSecret:    cfg.Announcer.ConsumerSecret,
		AccessToken:       cfg.Announcer.AccessToken,
		AccessTokenSecret: cfg.Announcer.AccessTokenSecret,
		BaseURL:           cfg.Announcer.BaseURL,
		Timeout:           cfg.Announcer.Timeout,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	storeService := service.NewStoreService(storeRepo, userRepo, reviewRepo, announcer)
	productService := service.NewProductService(productRepo, storeRepo, announcer)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	storeController := controller.NewStoreController(storeService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)

	var uploadController *controller.UploadController
	if cfg.S3.Bucket != "" {
		s3Storage := storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		uploadController = controller.NewUploadController(s3Storage)
	} else {
		logger.Warn("S3 bucket not configured, upload endpoint disabled", nil)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		productController,
		reviewController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Daily digest of new stores and products
	digest := scheduler.NewDigestScheduler(db.GetDB(), announcer)
	if err := digest.Start(); err != nil {
		logger.Warn("Daily digest scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer digest.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
