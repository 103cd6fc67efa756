package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Config holds everything the router needs
type Config struct {
	Logger *zap.Logger

	// JWTService enables authentication when set; nil leaves the API open,
	// which is only acceptable for local development
	JWTService *auth.JWTService

	// Tracing controls the request-span middleware
	Tracing     bool
	ServiceName string

	CheckoutHandler *handler.CheckoutHandler
	StockHandler    *handler.StockHandler
	TransferHandler *handler.TransferHandler
	ReportHandler   *handler.ReportHandler
	HealthHandler   *handler.HealthHandler
}

// New builds the gin engine with all middleware and routes wired
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		Enabled:     cfg.Tracing,
		ServiceName: cfg.ServiceName,
	}))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	if cfg.JWTService != nil {
		engine.Use(middleware.JWTAuth(cfg.JWTService))
	}
	if cfg.Tracing {
		engine.Use(middleware.TracingAttributes())
	}

	engine.GET("/health", cfg.HealthHandler.Health)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/health", cfg.HealthHandler.Health)

		v1.POST("/checkout", cfg.CheckoutHandler.Checkout)
		v1.POST("/sales/:id/void", cfg.CheckoutHandler.VoidSale)

		v1.GET("/stores/:store_id/stock", cfg.StockHandler.ListByStore)
		v1.GET("/stores/:store_id/stock/:product_id", cfg.StockHandler.Get)
		v1.PUT("/stores/:store_id/stock/:product_id/reorder-level", cfg.StockHandler.SetReorderLevel)
		v1.GET("/stores/:store_id/stock/:product_id/movements", cfg.StockHandler.GetMovements)
		v1.GET("/stock/low", cfg.StockHandler.ListLowStock)
		v1.POST("/stock/adjust", cfg.StockHandler.Adjust)

		v1.POST("/transfers", cfg.TransferHandler.Create)
		v1.GET("/transfers/:id", cfg.TransferHandler.Get)
		v1.POST("/transfers/:id/dispatch", cfg.TransferHandler.Dispatch)
		v1.POST("/transfers/:id/receive", cfg.TransferHandler.Receive)
		v1.POST("/transfers/:id/cancel", cfg.TransferHandler.Cancel)

		v1.GET("/reports/daily", cfg.ReportHandler.DailySummary)
		v1.GET("/reports/movement", cfg.ReportHandler.ProductMovement)
		v1.GET("/reports/on-hand", cfg.ReportHandler.TotalOnHand)
	}

	return engine
}
