package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/infrastructure/cache"
	"github.com/feedlot/backend/internal/infrastructure/config"
	"github.com/feedlot/backend/internal/infrastructure/logger"
	"github.com/feedlot/backend/internal/infrastructure/persistence"
	"github.com/feedlot/backend/internal/interfaces/http/handler"
	"github.com/feedlot/backend/internal/interfaces/http/middleware"
	"github.com/feedlot/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting feedlot backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Dashboard cache is optional; without Redis every dashboard hit
	// recomputes from the database.
	var dashboardCache appfinance.DashboardCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisDashboardCache(&cfg.Redis, cfg.Analysis.DashboardCacheTTL, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		dashboardCache = redisCache
		log.Info("Dashboard cache enabled", zap.Duration("ttl", cfg.Analysis.DashboardCacheTTL))
	}

	// Repositories and upstream sources
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	periodRepo := persistence.NewGormAnalysisPeriodRepository(db.DB)
	ledgerSource := persistence.NewGormLedgerSource(db.DB)

	// Application services
	syncService := appfinance.NewTransactionSyncService(txRepo, ledgerSource, ledgerSource, log)

	tolerance, err := decimal.NewFromString(cfg.Analysis.DifferenceTolerance)
	if err != nil {
		log.Fatal("Invalid analysis.difference_tolerance",
			zap.String("value", cfg.Analysis.DifferenceTolerance),
			zap.Error(err),
		)
	}
	analysisService := appfinance.NewAnalysisService(
		periodRepo,
		txRepo,
		syncService,
		finance.NewDefaultClassifier(),
		dashboardCache,
		log,
		finance.WithDifferenceTolerance(tolerance),
	)

	// HTTP setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewAnalysisHandler(analysisService, log))
	r.Register(handler.NewTransactionHandler(analysisService, log))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
