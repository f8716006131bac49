package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaintenanceMode rejects all traffic with 503 while enabled.
func MaintenanceMode(enabled bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": message})
			c.Abort()
			return
		}
		c.Next()
	}
}
