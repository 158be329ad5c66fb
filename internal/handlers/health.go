package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "Shiftdesk is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Root is the plain-text liveness route.
func Root(c *gin.Context) {
	c.String(200, "Server is functional")
}
