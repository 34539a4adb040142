package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sefazor/checkout-backend/internal/config"
	"github.com/sefazor/checkout-backend/internal/controller"
	"github.com/sefazor/checkout-backend/internal/handler"
	"github.com/sefazor/checkout-backend/internal/middleware"
	"github.com/sefazor/checkout-backend/internal/repository"
	"github.com/sefazor/checkout-backend/internal/service"
	"github.com/sefazor/checkout-backend/pkg/database"
	"github.com/sefazor/checkout-backend/pkg/payment"
	"github.com/sefazor/checkout-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Config'i yükle
	cfg := config.LoadConfig()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db := database.NewDatabase()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	purchaseRepo := repository.NewPurchaseRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Zaypay gateway factory: her istek kendi price setting client'ını kurar
	zaypayConfig := payment.Config{
		BaseURL: cfg.Zaypay.BaseURL,
		APIKey:  cfg.Zaypay.APIKey,
		Logger:  zapLogger,
	}
	if _, err := payment.NewPriceSetting(0, zaypayConfig); err != nil {
		log.Fatal("Invalid Zaypay config:", err)
	}
	gatewayFactory := service.GatewayFactory(func(priceSettingID int) service.Gateway {
		ps, _ := payment.NewPriceSetting(priceSettingID, zaypayConfig)
		return ps
	})

	// Services
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, gatewayFactory, zapLogger)
	productService := service.NewProductService(productRepo)

	// Validator'ı önce tanımla
	validator := utils.NewValidator()

	// Controllers
	purchaseController := controller.NewPurchaseController(purchaseService)
	productController := controller.NewProductController(productService)

	// Handlers
	purchaseHandler := handler.NewPurchaseHandler(purchaseController, validator)
	productHandler := handler.NewProductHandler(productController)

	// Router
	app := fiber.New()

	// Global Middleware'ler önce tanımlanmalı
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Gateway report endpoint (public, session middleware'den ÖNCE olmalı)
	api.Get("/report", purchaseHandler.HandleReport)
	api.Post("/report", purchaseHandler.HandleReport)

	// Checkout routes (session cookie bağlanır)
	api.Use(middleware.SessionMiddleware())
	{
		api.Get("/products", productHandler.GetAllProducts)

		// "new" route'u :id route'undan önce kayıtlı olmalı
		api.Get("/products/:productId/purchases/new", purchaseHandler.NewCheckout)
		api.Post("/products/:productId/purchases", purchaseHandler.CreatePurchase)
		api.Get("/products/:productId/purchases/:id", purchaseHandler.GetPurchase)
		api.Post("/products/:productId/purchases/:id/verification-code", purchaseHandler.SubmitVerificationCode)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
