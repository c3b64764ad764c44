package router

import (
	"net/http"

	"cotizador-platform/lib/middlewares/auth"
	"cotizador-platform/services/quotes/interfaces"

	"github.com/gin-gonic/gin"
)

func SetupRouter(router *gin.Engine, service interfaces.QuotesInterface) {
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	quotes := router.Group("/quotes", auth.AuthInjectionMiddleware())
	quotes.POST("/estimate", service.HandleQuoteEstimate)
	quotes.POST("", service.HandleCreateQuotation)
	quotes.GET("", service.HandleListQuotations)
	quotes.GET("/:id", service.HandleGetQuotation)
	quotes.PATCH("/:id", service.HandleUpdateQuotation)
	quotes.DELETE("/:id", service.HandleDeleteQuotation)
}
