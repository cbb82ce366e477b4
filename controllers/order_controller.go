package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/devops-orders/orders-api/config"
	"github.com/devops-orders/orders-api/models"
	"github.com/gin-gonic/gin"
)

// CreateOrder handles POST /api/orders - creates a new order, optionally
// with an inline order_items collection
func CreateOrder(c *gin.Context) {
	data, ok := parseBody(c)
	if !ok {
		return
	}

	var order models.Order
	if err := order.Deserialize(data, true); err != nil {
		abortWithDomainError(c, err)
		return
	}

	db := config.GetDB()
	if err := order.Create(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/orders/%d", order.ID))
	c.JSON(http.StatusCreated, order.Serialize(true))
}

// ListOrders handles GET /api/orders - lists orders, with optional
// customer_id and status filters and the o flag to omit items
func ListOrders(c *gin.Context) {
	var customerID *int
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid customer_id '"+raw+"'")
			return
		}
		customerID = &id
	}

	var status *string
	if raw := c.Query("status"); raw != "" {
		s := strings.ToLower(raw)
		status = &s
	}

	db := config.GetDB()
	orders, err := models.FindOrdersBy(db, customerID, status)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	withItems := !omitItems(c)
	results := make([]map[string]any, 0, len(orders))
	for i := range orders {
		results = append(results, orders[i].Serialize(withItems))
	}
	c.JSON(http.StatusOK, results)
}

// GetOrder handles GET /api/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order.Serialize(!omitItems(c)))
}

// UpdateOrder handles PUT /api/orders/:id - applies a field update. A
// payload carrying order_items replaces the whole collection; a payload
// carrying status may set any allowed value directly, bypassing the
// guarded lifecycle transitions.
func UpdateOrder(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	data, ok := parseBody(c)
	if !ok {
		return
	}

	if err := order.Deserialize(data, false); err != nil {
		abortWithDomainError(c, err)
		return
	}

	db := config.GetDB()
	if err := order.Update(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, order.Serialize(true))
}

// DeleteOrder handles DELETE /api/orders/:id - deletes an order and
// cascades to its items. Deleting an absent order is still a 204.
func DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := models.FindOrder(db, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	if order != nil {
		if err := order.Delete(db); err != nil {
			abortWithDomainError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// DeleteAllOrders handles DELETE /api/orders - removes every order
func DeleteAllOrders(c *gin.Context) {
	db := config.GetDB()
	if err := models.DeleteAllOrders(db); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveOrder loads the order named by the :id path parameter, writing
// the 404 response itself when the order does not exist
func resolveOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	db := config.GetDB()
	order, err := models.FindOrder(db, id)
	if err != nil {
		abortWithDomainError(c, err)
		return nil, false
	}
	if order == nil {
		abortWithError(c, http.StatusNotFound,
			fmt.Sprintf("Order with id '%d' was not found", id))
		return nil, false
	}
	return order, true
}
