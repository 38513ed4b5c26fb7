package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/orderapi"
)

// HandleGetOrder fetches a created order from the upstream backend for the
// confirmation view.
func HandleGetOrder(orders *orderapi.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order id is required"})
			return
		}

		order, err := orders.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
