package main

import (
	"context"
	"log"

	_ "hidetrade/api/swagger" // swagger docs
	"hidetrade/internal/config"
	"hidetrade/internal/database"
	"hidetrade/internal/handler"
	"hidetrade/internal/mailer"
	"hidetrade/internal/media"
	"hidetrade/internal/middleware"
	"hidetrade/internal/payment"
	"hidetrade/internal/pdf"
	"hidetrade/internal/repository"
	"hidetrade/internal/service"
	"hidetrade/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HideTrade Platform API
// @version         1.0
// @description     Quote, invoice, sample and catalog API for the leather wholesale platform.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// External clients
	stripeClient := payment.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	wiseClient := payment.NewWiseClient(cfg.Wise.APIToken, cfg.Wise.BaseURL)
	smtpMailer := mailer.NewSMTP(cfg.SMTP)
	pdfRenderer := pdf.NewRenderer()
	uploader := media.NewUploader(cfg.Media)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	quoteRepo := repository.NewQuoteRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sampleRepo := repository.NewSampleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, wsHub)
	quoteService := service.NewQuoteService(quoteRepo, catalogRepo, notificationService)
	invoiceService := service.NewInvoiceService(invoiceRepo, quoteRepo, pdfRenderer, smtpMailer, notificationService, cfg.Vendor, cfg.StorefrontURL)
	sampleService := service.NewSampleService(sampleRepo, notificationService, stripeClient, wiseClient, txManager, cfg.Shipping, cfg.Stripe.Currency)
	catalogService := service.NewCatalogService(catalogRepo, uploader)
	messageService := service.NewMessageService(messageRepo, notificationService)
	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret))

	if err := authService.SeedAdmin(context.Background(), "admin@hidetrade.example", "changeme"); err != nil {
		log.Printf("Admin seed skipped: %v", err)
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	quoteHandler := handler.NewQuoteHandler(quoteService, invoiceService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	sampleHandler := handler.NewSampleHandler(sampleService)
	webhookHandler := handler.NewWebhookHandler(stripeClient, sampleService)
	notificationHandler := handler.NewNotificationHandler(notificationService, cfg.CronSecret, cfg.NotificationRetention)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	messageHandler := handler.NewMessageHandler(messageService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.StorefrontURL, "http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "Stripe-Signature"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	quoteHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	sampleHandler.RegisterRoutes(router.Group(""))
	webhookHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	messageHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
