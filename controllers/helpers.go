package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devops-orders/orders-api/models"
	"github.com/gin-gonic/gin"
)

// abortWithError writes the standard error body {status, error, message}
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}

// abortWithDomainError maps a typed model error onto the HTTP taxonomy:
// validation and conflict failures are 400, missing entities are 404.
// Anything untyped stays a 500 without leaking the underlying cause.
func abortWithDomainError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError

	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		abortWithError(c, http.StatusNotFound, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		abortWithError(c, http.StatusBadRequest, conflictErr.Message)
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// parseBody decodes a JSON request body into a field mapping. Malformed
// JSON is a bad request, not a server error.
func parseBody(c *gin.Context) (map[string]any, bool) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return nil, false
	}
	return data, true
}

// parseID reads a numeric path parameter. A non-numeric id behaves like a
// missing resource.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		abortWithError(c, http.StatusNotFound,
			"Order with id '"+raw+"' was not found")
		return 0, false
	}
	return uint(id), true
}

// omitItems reports whether the o query flag asks for order-only
// serialization
func omitItems(c *gin.Context) bool {
	flag, err := strconv.ParseBool(c.Query("o"))
	return err == nil && flag
}
