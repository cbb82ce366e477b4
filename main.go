package main

import (
	"log"
	"net/http"

	"github.com/devops-orders/orders-api/config"
	"github.com/devops-orders/orders-api/controllers"
	"github.com/devops-orders/orders-api/middleware"
	"github.com/devops-orders/orders-api/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Basic logging
	log.Println("Starting Order Demo REST API Service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize Gin router
	router := setupRouter(cfg)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the middleware and all order routes. The home and
// health endpoints are the only ones outside the API key check.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", middleware.APIKeyHeader},
	}))

	router.GET("/", home)
	router.GET("/health", healthCheck)

	api := router.Group("/api/orders", middleware.RequireAPIKey(cfg))
	{
		api.POST("", middleware.RequireJSON(), controllers.CreateOrder)
		api.GET("", controllers.ListOrders)
		api.DELETE("", controllers.DeleteAllOrders)
		api.GET("/:id", controllers.GetOrder)
		api.PUT("/:id", middleware.RequireJSON(), controllers.UpdateOrder)
		api.DELETE("/:id", controllers.DeleteOrder)

		// Guarded lifecycle transitions
		api.PUT("/:id/return", controllers.ReturnOrder)
		api.PUT("/:id/cancel", controllers.CancelOrder)

		// Items nest under their owning order
		api.POST("/:id/items", middleware.RequireJSON(), controllers.CreateOrderItem)
		api.GET("/:id/items", controllers.ListOrderItems)
		api.GET("/:id/items/:item_id", controllers.GetOrderItem)
		api.PUT("/:id/items/:item_id", middleware.RequireJSON(), controllers.UpdateOrderItem)
		api.DELETE("/:id/items/:item_id", controllers.DeleteOrderItem)
	}

	return router
}

// home handles the root info page
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Order Demo REST API Service",
		"version": "1.0",
		"paths":   "/api/orders",
	})
}

// healthCheck handles the health probe endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Healthy",
	})
}
