package controllers

import (
	"fmt"
	"net/http"

	"github.com/devops-orders/orders-api/config"
	"github.com/devops-orders/orders-api/models"
	"github.com/gin-gonic/gin"
)

// CreateOrderItem handles POST /api/orders/:id/items - creates an item
// under an existing order. The item's ownership comes from the route, not
// the payload.
func CreateOrderItem(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	data, ok := parseBody(c)
	if !ok {
		return
	}

	var item models.OrderItem
	if err := item.Deserialize(data); err != nil {
		abortWithDomainError(c, err)
		return
	}
	item.OrderID = order.ID

	db := config.GetDB()
	if err := item.Create(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/orders/%d/items/%d", order.ID, item.ID))
	c.JSON(http.StatusCreated, item.Serialize())
}

// ListOrderItems handles GET /api/orders/:id/items - lists the items of an
// existing order
func ListOrderItems(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	db := config.GetDB()
	items, err := models.FindItemsByOrder(db, order.ID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	results := make([]map[string]any, 0, len(items))
	for i := range items {
		results = append(results, items[i].Serialize())
	}
	c.JSON(http.StatusOK, results)
}

// GetOrderItem handles GET /api/orders/:id/items/:item_id - fetches an
// item scoped to its owning order. An item living under a different order
// is not visible through this path.
func GetOrderItem(c *gin.Context) {
	_, item, ok := resolveOrderItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item.Serialize())
}

// UpdateOrderItem handles PUT /api/orders/:id/items/:item_id - updates an
// item's fields. A caller-supplied order_id is ignored; items cannot be
// reparented through a generic update.
func UpdateOrderItem(c *gin.Context) {
	order, item, ok := resolveOrderItem(c)
	if !ok {
		return
	}

	data, ok := parseBody(c)
	if !ok {
		return
	}

	if err := item.Deserialize(data); err != nil {
		abortWithDomainError(c, err)
		return
	}
	// the item stays with its original order regardless of the payload
	item.OrderID = order.ID

	db := config.GetDB()
	if err := item.Update(db); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, item.Serialize())
}

// DeleteOrderItem handles DELETE /api/orders/:id/items/:item_id - removes
// an item from its order. Deleting an item that no longer exists is a 204,
// but an absent order or a mismatched owner is still a 404.
func DeleteOrderItem(c *gin.Context) {
	order, ok := resolveOrder(c)
	if !ok {
		return
	}

	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	db := config.GetDB()
	item, err := models.FindOrderItem(db, itemID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	if item == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if item.OrderID != order.ID {
		abortWithError(c, http.StatusNotFound, fmt.Sprintf(
			"OrderItem with id '%d' was not found in order '%d'", itemID, order.ID))
		return
	}

	if err := item.Delete(db); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveOrderItem loads the order from :id and the item from :item_id,
// enforcing that the item belongs to that order. It writes the 404
// response itself on any miss.
func resolveOrderItem(c *gin.Context) (*models.Order, *models.OrderItem, bool) {
	order, ok := resolveOrder(c)
	if !ok {
		return nil, nil, false
	}

	itemID, ok := parseID(c, "item_id")
	if !ok {
		return nil, nil, false
	}

	db := config.GetDB()
	item, err := models.FindOrderItem(db, itemID)
	if err != nil {
		abortWithDomainError(c, err)
		return nil, nil, false
	}
	if item == nil || item.OrderID != order.ID {
		abortWithError(c, http.StatusNotFound, fmt.Sprintf(
			"OrderItem with id '%d' was not found in order '%d'", itemID, order.ID))
		return nil, nil, false
	}
	return order, item, true
}
