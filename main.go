package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"master-data-service/controllers"
	"master-data-service/database"
	"master-data-service/logger"
	middlewares "master-data-service/middleware"
	"master-data-service/repository"
	"master-data-service/routes"
	"master-data-service/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer log.Sync()

	// Load configuration from environment variables
	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. Initialization ---

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "localhost:6379", DB: 0}
	}
	redisClient := redis.NewClient(redisOpts)

	// AWS configuration (LocalStack/MinIO-compatible) using AWS SDK v2
	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKey != "" || cfg.AWSSecretKey != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})

	db, err := database.ConnectPostgres(cfg.PostgresDSN(), log)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	// --- 2. Dependency Injection (Wiring the layers together) ---

	masterRepo := repository.NewGormMasterRepository(db)
	stateRepo := repository.NewGormImportStateRepository(db)
	archiveStore := repository.NewS3ArchiveStore(s3Client, cfg.ArchiveBucket, log)

	importService := services.NewMasterImportService(masterRepo, stateRepo, archiveStore, log)
	searchService := services.NewSearchService(masterRepo, log)

	cache := controllers.NewCacheManager(redisClient)
	gate := middlewares.NewAuthGate(cfg.MasterUsername, cfg.MasterPassword)

	authController := controllers.NewAuthController(gate)
	uploadController := controllers.NewMasterUploadController(importService, cache)
	searchController := controllers.NewSearchController(searchService, cache)

	// --- 3. HTTP Server & Middleware ---

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))

	// --- 4. Route Registration ---

	routes.RegisterRoutes(r, gate, authController, uploadController, searchController, routes.RouteConfig{
		MaintenanceMode: cfg.MaintenanceMode,
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Master Data Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Master Data Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		zap.L().Error("Failed to close PostgreSQL", zap.Error(err))
	}

	zap.L().Info("Master Data Service stopped gracefully")
}
