// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context).
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoints.
const ServiceName = "Food Ninja Backend"

// HealthHandler handles service discovery and health check requests.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler reporting version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Root lists the public endpoints.
// Route: GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   ServiceName,
		"endpoints": []string{"/predict (POST)", "/chat (POST)", "/ask_ai (POST)"},
	})
}

// Health responds with service status.
// Route: GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": h.version,
	})
}
