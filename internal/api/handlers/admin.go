package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/repository"
)

// CreateCouponRequest defines a locally administered coupon.
type CreateCouponRequest struct {
	CouponCode    string          `json:"couponCode" binding:"required"`
	ProductType   string          `json:"productType"`
	DiscountType  string          `json:"discountType" binding:"required,oneof=fixed percentage"`
	DiscountValue decimal.Decimal `json:"discountValue" binding:"required"`
	MinimumAmount decimal.Decimal `json:"minimumAmount"`
	EndTime       time.Time       `json:"endTime" binding:"required"`
}

func HandleCreateCoupon(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		coupon := &domain.Coupon{
			CouponCode:    req.CouponCode,
			ProductType:   req.ProductType,
			DiscountType:  domain.DiscountType(req.DiscountType),
			DiscountValue: req.DiscountValue,
			MinimumAmount: req.MinimumAmount,
			EndTime:       req.EndTime,
		}

		if err := repos.Coupon.Create(c.Request.Context(), coupon); err != nil {
			logger.Error("Failed to create coupon", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create coupon"})
			return
		}

		c.JSON(http.StatusCreated, coupon)
	}
}

func HandleListCoupons(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := repos.Coupon.GetAllCoupons(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list coupons", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}
