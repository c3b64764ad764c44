package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuotesInterface interface {
	HandleQuoteEstimate(c *gin.Context)
	HandleCreateQuotation(c *gin.Context)
	HandleListQuotations(c *gin.Context)
	HandleGetQuotation(c *gin.Context)
	HandleUpdateQuotation(c *gin.Context)
	HandleDeleteQuotation(c *gin.Context)
	GracefulShutdown(server *http.Server)
}
