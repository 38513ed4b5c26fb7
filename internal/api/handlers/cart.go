package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/api/middleware"
	"github.com/freshmart/checkoutapi/internal/cart"
	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/domain"
)

// SetCartItemRequest adds or replaces a cart line.
type SetCartItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

func HandleSetCartItem(store *cart.Store, orchestrator *checkout.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		var req SetCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		store.SetItem(session.ID, domain.CartItem{
			ID:       req.ID,
			Title:    req.Title,
			Price:    req.Price,
			Quantity: req.Quantity,
		})

		// Totals recompute after every cart mutation; an applied coupon
		// that fell below its minimum is revoked here.
		view := recomputeTotals(c, orchestrator, session.ID)
		snapshot := store.Snapshot(session.ID)

		c.JSON(http.StatusOK, gin.H{
			"items":  snapshot.Items,
			"totals": view.Totals,
		})
	}
}

func HandleRemoveCartItem(store *cart.Store, orchestrator *checkout.Orchestrator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "redirect_to": "/"})
			return
		}

		store.RemoveItem(session.ID, c.Param("id"))

		view := recomputeTotals(c, orchestrator, session.ID)
		snapshot := store.Snapshot(session.ID)

		c.JSON(http.StatusOK, gin.H{
			"items":  snapshot.Items,
			"totals": view.Totals,
		})
	}
}
