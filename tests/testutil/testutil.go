package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/devops-orders/orders-api/config"
	"github.com/devops-orders/orders-api/controllers"
	"github.com/devops-orders/orders-api/middleware"
	"github.com/devops-orders/orders-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens an in-memory database, migrates the order models and
// installs the handle as the process-wide one
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// NewRouter wires the /api/orders surface the way main does, including the
// API key and content-type middleware
func NewRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api/orders", middleware.RequireAPIKey(cfg))
	{
		api.POST("", middleware.RequireJSON(), controllers.CreateOrder)
		api.GET("", controllers.ListOrders)
		api.DELETE("", controllers.DeleteAllOrders)
		api.GET("/:id", controllers.GetOrder)
		api.PUT("/:id", middleware.RequireJSON(), controllers.UpdateOrder)
		api.DELETE("/:id", controllers.DeleteOrder)

		api.PUT("/:id/return", controllers.ReturnOrder)
		api.PUT("/:id/cancel", controllers.CancelOrder)

		api.POST("/:id/items", middleware.RequireJSON(), controllers.CreateOrderItem)
		api.GET("/:id/items", controllers.ListOrderItems)
		api.GET("/:id/items/:item_id", controllers.GetOrderItem)
		api.PUT("/:id/items/:item_id", middleware.RequireJSON(), controllers.UpdateOrderItem)
		api.DELETE("/:id/items/:item_id", controllers.DeleteOrderItem)
	}

	return router
}

// Request performs a JSON request against the router with the given API
// key header and returns the recorder
func Request(t *testing.T, router *gin.Engine, method, path, apiKey string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, apiKey)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeBody unmarshals a JSON response body into a map
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var data map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("Response should be valid JSON: %v", err)
	}
	return data
}

// DecodeList unmarshals a JSON array response body
func DecodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var data []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("Response should be a valid JSON array: %v", err)
	}
	return data
}
