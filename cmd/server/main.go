package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"donation-hub.backend/internal/config"
	datasources "donation-hub.backend/internal/infrastructure/datasources/postgres"
	"donation-hub.backend/internal/infrastructure/models"
	"donation-hub.backend/internal/infrastructure/payments"
	"donation-hub.backend/internal/infrastructure/repositories"
	"donation-hub.backend/internal/interfaces/http/handlers"
	"donation-hub.backend/internal/interfaces/http/middleware"
	"donation-hub.backend/internal/usecases"
	"donation-hub.backend/pkg/jwt"
	"donation-hub.backend/pkg/logger"
	"donation-hub.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	probeDB   = datasources.NewConnection
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	// Probe connectivity with a direct connection before migrating
	if probe, probeErr := probeDB(cfg.Database); probeErr != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", probeErr)
	} else {
		probe.Close()
		log.Println("Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(&models.User{}, &models.Donation{}); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	donationRepo := repositories.NewDonationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize payment provider adapters
	adapters := payments.NewAdapters(cfg)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	ledgerUsecase := usecases.NewLedgerUsecase(donationRepo, uow)
	donationUsecase := usecases.NewDonationUsecase(ledgerUsecase, adapters)
	adminUsecase := usecases.NewAdminUsecase(userRepo, donationRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	donationHandler := handlers.NewDonationHandler(donationUsecase)
	adminHandler := handlers.NewAdminHandler(adminUsecase)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     authHandler,
		donationHandler: donationHandler,
		adminHandler:    adminHandler,
		authMiddleware:  middleware.AuthMiddleware(jwtService),
	})

	// Start server
	log.Printf("Donation Hub Backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/healthz", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
