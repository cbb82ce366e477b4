package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/devops-orders/orders-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()
	order := models.Order{CustomerID: 1, Status: status}
	require.NoError(t, order.Create(db))
	return &order
}

func TestCreateOrderItemEndpoint(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/orders/%d/items", order.ID),
		map[string]any{"product_id": 5, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeMap(t, w)
	assert.Equal(t, float64(order.ID), created["order_id"])
	assert.Equal(t, float64(5), created["product_id"])
	assert.Equal(t, float64(2), created["quantity"])

	// The Location header must resolve to the created item
	location := w.Header().Get("Location")
	require.NotEmpty(t, location)

	w = performRequest(router, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeMap(t, w)
	assert.Equal(t, created["id"], fetched["id"])
}

func TestCreateOrderItemIgnoresPayloadOrderID(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)

	// ownership comes from the route, not the body
	w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/orders/%d/items", order.ID),
		map[string]any{"order_id": 999, "product_id": 5, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeMap(t, w)
	assert.Equal(t, float64(order.ID), created["order_id"])
}

func TestCreateOrderItemOrderNotFound(t *testing.T) {
	setupOrderTestDB(t)
	router := setupTestRouter()

	w := performRequest(router, http.MethodPost, "/api/orders/0/items",
		map[string]any{"product_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderItemMissingKeys(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)
	path := fmt.Sprintf("/api/orders/%d/items", order.ID)

	w := performRequest(router, http.MethodPost, path, map[string]any{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMap(t, w)["message"], "missing product_id")

	w = performRequest(router, http.MethodPost, path, map[string]any{"product_id": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMap(t, w)["message"], "missing quantity")
}

func TestGetOrderItemEndpoint(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)
	item := models.OrderItem{OrderID: order.ID, ProductID: 5, Quantity: 2}
	require.NoError(t, item.Create(db))

	w := performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/orders/%d/items/%d", order.ID, item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeMap(t, w)
	assert.Equal(t, float64(item.ID), data["id"])
	assert.Equal(t, float64(order.ID), data["order_id"])
	assert.Equal(t, float64(5), data["product_id"])
	assert.Equal(t, float64(2), data["quantity"])
}

func TestGetOrderItemWrongOrder(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	first := createTestOrder(t, db, models.StatusPlaced)
	second := createTestOrder(t, db, models.StatusPlaced)

	item := models.OrderItem{OrderID: second.ID, ProductID: 5, Quantity: 2}
	require.NoError(t, item.Create(db))

	// The item exists, but not under this order's path
	w := performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/orders/%d/items/%d", first.ID, item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderItemOrderNotFound(t *testing.T) {
	setupOrderTestDB(t)
	router := setupTestRouter()

	w := performRequest(router, http.MethodGet, "/api/orders/0/items/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderItemEndpoint(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)
	item := models.OrderItem{OrderID: order.ID, ProductID: 5, Quantity: 2}
	require.NoError(t, item.Create(db))

	// order_id in the payload must be ignored; items cannot be reparented
	w := performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/orders/%d/items/%d", order.ID, item.ID),
		map[string]any{"order_id": -1, "product_id": 123, "quantity": 99})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeMap(t, w)
	assert.Equal(t, float64(order.ID), updated["order_id"])
	assert.Equal(t, float64(123), updated["product_id"])
	assert.Equal(t, float64(99), updated["quantity"])

	stored, err := models.FindOrderItem(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.OrderID)
}

func TestUpdateOrderItemNotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	// missing order
	w := performRequest(router, http.MethodPut, "/api/orders/0/items/1",
		map[string]any{"product_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// existing order, missing item
	order := createTestOrder(t, db, models.StatusPlaced)
	w = performRequest(router, http.MethodPut,
		fmt.Sprintf("/api/orders/%d/items/9999", order.ID),
		map[string]any{"product_id": 1, "quantity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrderItemsEndpoint(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)
	for i := 0; i < 5; i++ {
		item := models.OrderItem{OrderID: order.ID, ProductID: i, Quantity: 1}
		require.NoError(t, item.Create(db))
	}

	w := performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/orders/%d/items", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 5)
}

func TestListOrderItemsOrderNotFound(t *testing.T) {
	setupOrderTestDB(t)
	router := setupTestRouter()

	w := performRequest(router, http.MethodGet, "/api/orders/99999/items", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrderItemEndpoint(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)
	item := models.OrderItem{OrderID: order.ID, ProductID: 5, Quantity: 2}
	require.NoError(t, item.Create(db))

	w := performRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/orders/%d/items/%d", order.ID, item.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, http.MethodGet,
		fmt.Sprintf("/api/orders/%d/items/%d", order.ID, item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrderItemIdempotent(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	order := createTestOrder(t, db, models.StatusPlaced)

	// deleting an item that never existed is still a success
	w := performRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/orders/%d/items/99999", order.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteOrderItemWrongOrder(t *testing.T) {
	db := setupOrderTestDB(t)
	router := setupTestRouter()

	first := createTestOrder(t, db, models.StatusPlaced)
	second := createTestOrder(t, db, models.StatusPlaced)

	item := models.OrderItem{OrderID: second.ID, ProductID: 5, Quantity: 2}
	require.NoError(t, item.Create(db))

	w := performRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/orders/%d/items/%d", first.ID, item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the item survives under its real order
	stored, err := models.FindOrderItem(db, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, second.ID, stored.OrderID)
}

func TestDeleteOrderItemOrderNotFound(t *testing.T) {
	setupOrderTestDB(t)
	router := setupTestRouter()

	w := performRequest(router, http.MethodDelete, "/api/orders/0/items/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
