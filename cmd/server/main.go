package main

import (
	"log"
	"os"
	"time"

	"go-shop-server/internal/database"
	"go-shop-server/internal/handlers"
	"go-shop-server/internal/middleware"
	"go-shop-server/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()

	// Background job: restore prices when discounts expire.
	// Runs on its own schedule, isolated from request handling.
	reconciler := scheduler.Start(database.DB)
	defer reconciler.Stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"}, // Allow the storefront client
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.POST("/register", handlers.Register)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Shoppers
		api.GET("/products", handlers.GetProducts)
		api.GET("/cart", handlers.GetCart)
		api.POST("/cart", handlers.AddToCart)
		api.DELETE("/cart/:productId", handlers.RemoveCartItem)
		api.POST("/checkout", handlers.ProcessCheckout)
		api.GET("/checkout/rates", handlers.GetExchangeRates)
		api.GET("/checkout/currencies", handlers.GetAvailableCurrencies)
		api.GET("/checkout/addresses", handlers.GetUserAddresses)
		api.GET("/orders", handlers.GetMyOrders)
		api.GET("/discounts", handlers.GetDiscounts)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.POST("/discounts", handlers.CreateDiscount)
			admin.POST("/discounts/:id/products", handlers.ApplyDiscountToProducts)
			admin.GET("/orders/all", handlers.GetAllOrders)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
