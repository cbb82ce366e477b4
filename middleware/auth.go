package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/devops-orders/orders-api/config"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the request header carrying the shared secret
const APIKeyHeader = "X-Api-Key"

// RequireAPIKey is a middleware that checks the shared-secret header on
// every protected route. A missing or mismatched key aborts with 401.
func RequireAPIKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
			log.Printf("Rejected request to %s: missing or invalid API key", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"error":   http.StatusText(http.StatusUnauthorized),
				"message": "Missing or invalid API key",
			})
			return
		}
		c.Next()
	}
}

// RequireJSON is a middleware for body-bearing writes that rejects any
// request whose Content-Type is not application/json with 415.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.ContentType(), "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"status":  http.StatusUnsupportedMediaType,
				"error":   http.StatusText(http.StatusUnsupportedMediaType),
				"message": "Content-Type must be application/json",
			})
			return
		}
		c.Next()
	}
}
