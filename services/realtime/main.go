package main

import (
	"log"
	"net/http"

	"cotizador-platform/lib/config"
	"cotizador-platform/lib/middlewares/cors"
	"cotizador-platform/services/realtime/router"
	"cotizador-platform/services/realtime/service"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	realtimeService := service.NewRealtimeService()

	r := gin.Default()
	r.Use(cors.CORSMiddleware())
	router.SetupRouter(r, realtimeService)

	go realtimeService.ConsumePriceUpdates()

	server := &http.Server{
		Addr:    ":8087",
		Handler: r,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	realtimeService.GracefulShutdown(server)
}
