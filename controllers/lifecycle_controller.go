package controllers

import (
	"net/http"

	"github.com/devops-orders/orders-api/config"
	"github.com/gin-gonic/gin"
)

// ReturnOrder handles PUT /api/orders/:id/return - marks a shipped order
// as returned. Any other starting status is rejected with 400.
func ReturnOrder(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := order.Return(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// CancelOrder handles PUT /api/orders/:id/cancel - cancels a placed order.
// Any other starting status is rejected with 400.
func CancelOrder(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := order.Cancel(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, order.Serialize(true))
}
