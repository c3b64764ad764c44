package router

import (
	"net/http"

	"cotizador-platform/services/realtime/interfaces"

	"github.com/gin-gonic/gin"
)

func SetupRouter(router *gin.Engine, service interfaces.RealtimeInterface) {
	router.GET("/ws", service.HandlePriceWebSocket)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
