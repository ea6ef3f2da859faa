package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/tradetax/k4-statement-service/client"
	"github.com/tradetax/k4-statement-service/config"
	"github.com/tradetax/k4-statement-service/handler"
	"github.com/tradetax/k4-statement-service/service"
)

func main() {
	// Optional .env for local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize clients. The model credential is injected here; it is
	// checked per request so a missing key fails requests, not the process.
	geminiClient := client.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	statementService := service.NewStatementService(geminiClient, tesseractClient, pdfProcessor, cfg)

	// Initialize handler layer
	statementHandler := handler.NewStatementHandler(statementService)

	if _, err := os.Stat(cfg.TemplatePath); err != nil {
		log.Printf("Warning: K4 template not found at %s; processing requests will fail until it is provided", cfg.TemplatePath)
	} else if names, err := service.TemplateFieldNames(cfg.TemplatePath); err == nil {
		log.Printf("K4 template loaded with %d form fields", len(names))
	}

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "K4 Statement Service",
		})
	})

	// API routes
	api := router.Group("/api")
	{
		api.POST("/process-statement", statementHandler.ProcessStatement)
	}

	// Start server
	log.Printf("Starting K4 Statement Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
