package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIIndex lists the entry points of the API
// GET /
func APIIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stores":   "/api/v1/stores",
		"products": "/api/v1/stores/:id/products",
		"reviews":  "/api/v1/products/:id/reviews",
		"vendors":  "/api/v1/vendors/:id/stores",
		"auth":     "/api/v1/auth",
	})
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
