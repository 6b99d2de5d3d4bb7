package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/gymledger/internal/api"
	"alcyxob/gymledger/internal/clock"
	"alcyxob/gymledger/internal/config"
	"alcyxob/gymledger/internal/logger"
	"alcyxob/gymledger/internal/messaging"
	"alcyxob/gymledger/internal/repository/mongo"
	"alcyxob/gymledger/internal/service"
	"alcyxob/gymledger/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Gym Ledger API
// @version 1.0
// @description Gym chain administration: tenants, memberships, billing and financial reports.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		stdlog.Fatalf("FATAL: Could not load config: %v", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		stdlog.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting gymledger server",
		zap.String("address", cfg.Server.Address),
		zap.String("report_timezone", cfg.Report.Location.String()))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	// The unique username index must exist before the first registration.
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		cancelIndexes()
		log.Fatal("Could not create indexes", zap.Error(err))
	}
	cancelIndexes()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	memberRepo := mongo.NewMongoMemberRepository(appDB)
	gymRepo := mongo.NewMongoGymRepository(appDB)
	settingsRepo := mongo.NewMongoSettingsRepository(appDB)

	// --- Initialize Services ---
	clk := clock.System{Location: cfg.Report.Location}
	policy := service.RetryPolicy{
		MaxRetries:      cfg.Database.ConflictRetries,
		InitialInterval: cfg.Database.RetryInterval,
	}
	messenger := messaging.NewMessenger(messaging.NewGeminiClient(cfg.AI, log), log)
	if cfg.AI.APIKey == "" {
		log.Warn("AI API key not configured, generated messages will use fallback texts")
	}

	gymService := service.NewGymService(gymRepo, memberRepo, settingsRepo, clk, log)
	photoService := service.NewPhotoService(memberRepo, fileStorage, clk, policy, cfg.S3.PresignExpiry, log)
	services := api.Services{
		Auth:    service.NewAuthService(gymRepo, memberRepo, cfg.Admin, cfg.JWT, log),
		Gyms:    gymService,
		Members: service.NewMemberService(memberRepo, messenger, clk, policy, log),
		Photos:  photoService,
		Reports: service.NewReportService(memberRepo, clk, log),
		Portal:  service.NewPortalService(memberRepo, gymService, photoService, messenger, clk, log),
	}

	// --- Initialize Gin Engine ---
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.MetricsMiddleware(), api.RequestLoggingMiddleware(log))

	stopLimiter := make(chan struct{})
	loginLimiter := api.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, 10*time.Minute)
	go loginLimiter.Run(stopLimiter, time.Minute)
	defer close(stopLimiter)

	api.SetupRoutes(router, services, loginLimiter, log)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
