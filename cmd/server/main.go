package main

import (
	"log"
	"net/http"

	config "bunyan-api/configs"
	"bunyan-api/pkg/handlers"
	"bunyan-api/pkg/llm"
	"bunyan-api/pkg/partner"
	"bunyan-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load the .env file if present
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	r := gin.Default()

	// Provider clients. Configuration is injected here once; nothing below
	// reads the environment.
	chatClient := llm.NewClient(cfg.ChatAPIURL, cfg.ChatAPIKey, cfg.UpstreamTimeout)
	imageComposer := llm.NewImageComposer(cfg.ImageProviderURL, cfg.ImageAPIKey)
	partnerClient := partner.NewClient(cfg.InvoiceAPIURL, cfg.DesignAPIURL, cfg.UpstreamTimeout)

	// Services
	monitoringService := services.NewMonitoringService()
	assistantService := services.NewAssistantService(chatClient, imageComposer)
	estimateService := services.NewEstimateService(chatClient)
	finishingService := services.NewFinishingService(partnerClient)

	// Handlers
	aiHandler := handlers.NewAIHandler(assistantService, estimateService)
	billHandler := handlers.NewBillHandler(partnerClient)
	finishingHandler := handlers.NewFinishingHandler(finishingService)
	adminHandler := handlers.NewAdminHandler(cfg)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	r.GET("/health", handlers.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// AI proxy gateway
		v1.POST("/chat", aiHandler.Chat)
		v1.POST("/estimate-cost", aiHandler.EstimateCost)
		v1.POST("/generate-design", aiHandler.GenerateDesign)
		v1.POST("/scan-bill", billHandler.ScanBill)
		v1.POST("/visualize-finishing", finishingHandler.VisualizeFinishing)
		v1.POST("/finishing-data", finishingHandler.FinishingData)

		// Operator API
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	log.Printf("Starting Bunyan API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
