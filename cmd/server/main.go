package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/api"
	"github.com/freshmart/checkoutapi/internal/cart"
	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/gateway/mpesa"
	"github.com/freshmart/checkoutapi/internal/gateway/stripe"
	"github.com/freshmart/checkoutapi/internal/orderapi"
	"github.com/freshmart/checkoutapi/internal/repository/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories and external clients
	repos := postgres.NewRepositories(db, logger)
	orders := orderapi.NewClient(cfg.OrderAPI, logger)
	cards := stripe.NewClient(cfg.Stripe, logger)
	mobile := mpesa.NewClient(cfg.Mpesa, logger)

	// Checkout workflow
	cartStore := cart.NewStore(logger)
	evaluator := checkout.NewEvaluator(logger, orders, repos.Coupon)
	dispatcher := checkout.NewDispatcher(cards, mobile, orders, logger)
	orchestrator := checkout.NewOrchestrator(cartStore, evaluator, dispatcher, orders, repos.CheckoutEvent, logger)

	router := api.NewRouter(cfg, repos, orchestrator, cartStore, orders, logger)

	logger.Info("Starting checkout API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
