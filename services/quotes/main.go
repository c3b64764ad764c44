package main

import (
	"log"
	"net/http"

	"cotizador-platform/lib/config"
	"cotizador-platform/lib/database"
	"cotizador-platform/lib/middlewares/cors"
	"cotizador-platform/lib/sicetac"
	"cotizador-platform/services/quotes/router"
	"cotizador-platform/services/quotes/service"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisClient, err := database.InitRedis()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	pool, err := database.InitPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	mongoClient, err := database.InitMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	sicetacClient := sicetac.NewClient(sicetac.Config{
		Endpoint:   config.GetSicetacEndpoint(),
		Username:   config.GetSicetacUsername(),
		Password:   config.GetSicetacPassword(),
		CompanyNIT: config.GetSicetacCompanyNIT(),
		Timeout:    config.GetSicetacTimeout(),
		VerifySSL:  config.GetSicetacVerifySSL(),
	})

	quotesService := service.NewQuotesService(pool, redisClient, mongoClient, sicetacClient)

	r := gin.Default()
	r.Use(cors.CORSMiddleware())
	router.SetupRouter(r, quotesService)

	server := &http.Server{
		Addr:    ":8086",
		Handler: r,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quotesService.GracefulShutdown(server)
}
