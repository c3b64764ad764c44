package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RealtimeInterface interface {
	HandlePriceWebSocket(c *gin.Context)
	ConsumePriceUpdates()
	GracefulShutdown(server *http.Server)
}
