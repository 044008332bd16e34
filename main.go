package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medivault-server/internal/config"
	"medivault-server/internal/logger"
	"medivault-server/internal/metrics"
	"medivault-server/internal/middleware"
	"medivault-server/internal/models"
	"medivault-server/internal/repository"
	"medivault-server/internal/repository/memory"
	"medivault-server/internal/routes"
	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

func main() {
	// Load environment variables; a missing .env is fine when the environment is already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	store, err := openStore(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	collector := metrics.NewCollector()
	tokens := utils.NewTokenService(cfg.JWT)
	svcs := services.New(store, tokens, zlog, collector)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zlog))
	router.Use(middleware.Metrics(collector))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, svcs, routes.Options{
		Tokens:         tokens,
		Log:            zlog,
		Metrics:        collector,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("server starting",
		zap.String("addr", serverAddr),
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.Database.Driver),
	)
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(cfg config.DatabaseConfig) (repository.Store, error) {
	if cfg.Driver == "memory" {
		return memory.New(), nil
	}
	db, err := models.InitDB(models.DatabaseConfig{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	return repository.NewGormStore(db), nil
}
