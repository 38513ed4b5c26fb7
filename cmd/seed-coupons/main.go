package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/repository/postgres"
)

// Seeds a handful of coupon definitions for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	coupons := []*domain.Coupon{
		{
			CouponCode:    "WINTER24",
			ProductType:   "Grocery",
			DiscountType:  domain.DiscountTypeFixed,
			DiscountValue: decimal.NewFromInt(10),
			MinimumAmount: decimal.NewFromInt(100),
			EndTime:       time.Now().AddDate(0, 3, 0),
		},
		{
			CouponCode:    "FRESH10",
			ProductType:   "Fresh Produce",
			DiscountType:  domain.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(10),
			MinimumAmount: decimal.NewFromInt(50),
			EndTime:       time.Now().AddDate(0, 1, 0),
		},
	}

	for _, coupon := range coupons {
		if err := repos.Coupon.Create(context.Background(), coupon); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed coupon %s: %v\n", coupon.CouponCode, err)
			continue
		}
		fmt.Printf("Seeded coupon %s (%s %s, min %s)\n",
			coupon.CouponCode, coupon.DiscountValue, coupon.DiscountType, coupon.MinimumAmount)
	}
}
