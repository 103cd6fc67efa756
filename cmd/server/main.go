package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	checkoutapp "github.com/retailops/backend/internal/application/checkout"
	reportapp "github.com/retailops/backend/internal/application/report"
	stockapp "github.com/retailops/backend/internal/application/stock"
	transferapp "github.com/retailops/backend/internal/application/transfer"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/event"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"github.com/retailops/backend/internal/interfaces/http/router"
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

	log.Info("Starting RetailOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewProvider(context.Background(), telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		Endpoint:      cfg.Telemetry.Endpoint,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		ServiceName:   cfg.App.Name,
		Insecure:      cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterGormTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	scope := persistence.NewGormScope(db.DB)

	// Event bus with the low-stock alert handler subscribed
	eventBus := event.NewInMemoryEventBus(log)
	lowStockHandler := event.NewLowStockAlertHandler(log)
	eventBus.Subscribe(lowStockHandler)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	// Idempotency store: Redis when configured, in-process otherwise
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(context.Background(), cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		idemStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	retry := txn.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     cfg.Retry.Backoff,
	}

	checkoutService := checkoutapp.NewService(scope, log, decimal.NewFromFloat(cfg.Checkout.TaxRate), retry)
	stockService := stockapp.NewService(scope, log, retry)
	transferService := transferapp.NewService(scope, log, retry)
	reportService := reportapp.NewService(scope, log)

	checkoutService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	transferService.SetIdempotencyStore(idemStore, shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	})

	// JWT verification; tokens are issued by the identity service
	var jwtService *auth.JWTService
	if cfg.JWT.Secret != "" {
		jwtService = auth.NewJWTService(&cfg.JWT)
	} else if cfg.App.Env != "production" {
		log.Warn("JWT secret not configured, API is unauthenticated")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}

	engine := router.New(router.Config{
		Logger:          log,
		JWTService:      jwtService,
		Tracing:         tracerProvider.IsEnabled(),
		ServiceName:     cfg.App.Name,
		CheckoutHandler: handler.NewCheckoutHandler(checkoutService),
		StockHandler:    handler.NewStockHandler(stockService),
		TransferHandler: handler.NewTransferHandler(transferService),
		ReportHandler:   handler.NewReportHandler(reportService),
		HealthHandler:   handler.NewHealthHandler(db),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
