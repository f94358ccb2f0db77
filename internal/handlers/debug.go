package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-simulator/internal/emitters"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, notifier *emitters.Notifier, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/notify-test", func(c *gin.Context) {
		if notifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notifier not configured"})
			return
		}
		notifier.MessageReceived(c.Request.Context(), "debug", "notification test")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
