package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/api/handlers"
	"github.com/freshmart/checkoutapi/internal/api/middleware"
	"github.com/freshmart/checkoutapi/internal/cart"
	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/orderapi"
	"github.com/freshmart/checkoutapi/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	orchestrator *checkout.Orchestrator,
	cartStore *cart.Store,
	orders *orderapi.Client,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Storefront routes (require an authenticated session)
		sessionRoutes := v1.Group("")
		sessionRoutes.Use(middleware.AuthMiddleware(repos, logger))
		{
			sessionRoutes.POST("/cart/items", handlers.HandleSetCartItem(cartStore, orchestrator, logger))
			sessionRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(cartStore, orchestrator, logger))
			sessionRoutes.GET("/checkout/totals", handlers.HandleGetTotals(orchestrator, orders, logger))
			sessionRoutes.GET("/checkout/shipping-options", handlers.HandleShippingOptions(orchestrator))
			sessionRoutes.PUT("/checkout/shipping", handlers.HandleSelectShipping(orchestrator, logger))
			sessionRoutes.POST("/checkout/coupon", handlers.HandleApplyCoupon(orchestrator, logger))
			sessionRoutes.POST("/checkout/submit", handlers.HandleCheckoutSubmit(orchestrator, logger))
			sessionRoutes.GET("/orders/:id", handlers.HandleGetOrder(orders, logger))
		}

		// Admin routes (internal - for now using same auth, can be separated later)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(repos, logger))
		{
			adminRoutes.POST("/coupons", handlers.HandleCreateCoupon(repos, logger))
			adminRoutes.GET("/coupons", handlers.HandleListCoupons(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
