package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/api/middleware"
	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/orderapi"
)

const (
	couponCookieName   = "couponInfo"
	shippingCookieName = "shippingAddress"
	cookieMaxAge       = 7 * 24 * 60 * 60
)

// SubmitOrderRequest is the checkout form payload.
type SubmitOrderRequest struct {
	FirstName      string                `json:"firstName" binding:"required"`
	LastName       string                `json:"lastName" binding:"required"`
	Address        string                `json:"address" binding:"required"`
	Contact        string                `json:"contact" binding:"required"`
	Email          string                `json:"email" binding:"required,email"`
	City           string                `json:"city" binding:"required"`
	Country        string                `json:"country" binding:"required"`
	ZipCode        string                `json:"zipCode" binding:"required"`
	ShippingOption string                `json:"shippingOption" binding:"required"`
	PaymentMethod  domain.PaymentMethod  `json:"paymentMethod" binding:"required"`
	Card           *checkout.CardDetails `json:"card,omitempty"`
	MpesaPhone     string                `json:"mpesaPhone,omitempty"`
}

// shippingAddressCookie is the subset of the submit form persisted for
// pre-filling the next checkout. Payment details never enter the cookie.
type shippingAddressCookie struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Address        string `json:"address"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
	City           string `json:"city"`
	Country        string `json:"country"`
	ZipCode        string `json:"zipCode"`
	ShippingOption string `json:"shippingOption"`
}

// SubmitOrderResponse is returned once the order is created upstream.
type SubmitOrderResponse struct {
	OrderID    string             `json:"order_id"`
	Status     domain.OrderStatus `json:"status"`
	RedirectTo string             `json:"redirect_to"`
	Message    string             `json:"message"`
}

func HandleCheckoutSubmit(orchestrator *checkout.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		var req SubmitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		// The form's address fields are persisted so the next checkout
		// starts pre-filled, same as the applied coupon.
		setJSONCookie(c, shippingCookieName, shippingAddressCookie{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Address:        req.Address,
			Contact:        req.Contact,
			Email:          req.Email,
			City:           req.City,
			Country:        req.Country,
			ZipCode:        req.ZipCode,
			ShippingOption: req.ShippingOption,
		})

		if _, err := orchestrator.SelectShipping(session.ID, req.ShippingOption); err != nil {
			respondError(c, logger, err)
			return
		}

		result, err := orchestrator.Submit(c.Request.Context(), session.ID, checkout.SubmitRequest{
			UserInfo: domain.UserInfo{
				Name:    req.FirstName + " " + req.LastName,
				Contact: req.Contact,
				Email:   req.Email,
				Address: req.Address,
				Country: req.Country,
				City:    req.City,
				ZipCode: req.ZipCode,
			},
			PaymentMethod: req.PaymentMethod,
			Card:          req.Card,
			MpesaPhone:    req.MpesaPhone,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		clearCookie(c, couponCookieName)

		c.JSON(http.StatusOK, SubmitOrderResponse{
			OrderID:    result.OrderID,
			Status:     domain.OrderStatusPending,
			RedirectTo: result.RedirectTo,
			Message:    result.Message,
		})
	}
}

// ApplyCouponRequest carries the user-supplied coupon code.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

func HandleApplyCoupon(orchestrator *checkout.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		coupon, err := orchestrator.ApplyCoupon(c.Request.Context(), session.ID, req.Code)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		setJSONCookie(c, couponCookieName, coupon)

		view := recomputeTotals(c, orchestrator, session.ID)
		c.JSON(http.StatusOK, gin.H{
			"coupon":  coupon,
			"totals":  view.Totals,
			"message": "Your coupon " + coupon.CouponCode + " is applied on " + coupon.ProductType + "!",
		})
	}
}

// SelectShippingRequest selects a shipping option by name.
type SelectShippingRequest struct {
	Option string `json:"option" binding:"required"`
}

func HandleSelectShipping(orchestrator *checkout.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		var req SelectShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		option, err := orchestrator.SelectShipping(session.ID, req.Option)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		view := recomputeTotals(c, orchestrator, session.ID)
		c.JSON(http.StatusOK, gin.H{
			"shippingOption": option,
			"totals":         view.Totals,
		})
	}
}

func HandleGetTotals(orchestrator *checkout.Orchestrator, orders *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		view := recomputeTotals(c, orchestrator, session.ID)

		currency := "$"
		if setting, err := fetchSetting(c.Request.Context(), orders); err == nil {
			currency = setting.DefaultCurrency
		}

		c.JSON(http.StatusOK, gin.H{
			"totals":        view.Totals,
			"coupon":        view.Coupon,
			"couponRevoked": view.CouponRevoked,
			"currency":      currency,
		})
	}
}

func HandleShippingOptions(orchestrator *checkout.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"options": orchestrator.ShippingOptions()})
	}
}

// recomputeTotals runs the reactive recompute and drops the coupon cookie
// when the recompute revoked the applied coupon.
func recomputeTotals(c *gin.Context, orchestrator *checkout.Orchestrator, sessionID uuid.UUID) checkout.TotalsView {
	view := orchestrator.CurrentTotals(sessionID)
	if view.CouponRevoked {
		clearCookie(c, couponCookieName)
	}
	return view
}

func fetchSetting(ctx context.Context, orders *orderapi.Client) (*domain.GlobalSetting, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return orders.GetGlobalSetting(ctx)
}

// setJSONCookie stores the JSON-encoded value; SetCookie URL-escapes it.
func setJSONCookie(c *gin.Context, name string, value interface{}) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.SetCookie(name, string(encoded), cookieMaxAge, "/", "", false, true)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}
