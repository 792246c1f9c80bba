package main

import (
	"context"
	"log"
	"os"
	"time"

	"menulens/internal/auth"
	"menulens/internal/db"
	"menulens/internal/llm"
	"menulens/internal/menu"
	"menulens/internal/middleware"
	"menulens/internal/scan"
	"menulens/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── CORE ─────────────────────────
	gateway := llm.NewGateway(llm.NewGeminiClient(), llm.DefaultRetryPolicy())

	scanRepo := scan.NewPostgresRepository(pgDB)
	menuRepo := menu.NewPostgresRepository(pgDB)

	scanService := scan.NewService(scanRepo, menuRepo, r2Client, gateway)
	menuService := menu.NewService(menuRepo)

	authHandler := auth.NewHandler()
	scanHandler := scan.NewHandler(scanService)
	menuHandler := menu.NewHandler(menuService)

	// ───────────────────────── AUTH ROUTES ─────────────────────────
	r.POST("/auth/session", authHandler.CreateSession)

	// ───────────────────────── SCAN ROUTES ─────────────────────────
	scans := r.Group("/scans")
	scans.Use(middleware.AuthMiddleware())
	{
		scans.POST("", scanHandler.Create)
		scans.GET("/:id", scanHandler.Get)
		scans.POST("/:id/retry", scanHandler.Retry)
	}

	// ───────────────────────── MENU ROUTES ─────────────────────────
	menus := r.Group("/menus")
	menus.Use(middleware.AuthMiddleware())
	{
		menus.GET("", menuHandler.ListMenus)
		menus.GET("/:id", menuHandler.GetMenu)
		menus.GET("/:id/order", menuHandler.OrderSummary)
		menus.POST("/:id/selection/toggle", menuHandler.ToggleItem)
		menus.POST("/:id/selection/quantity", menuHandler.SetQuantity)
		menus.POST("/:id/selection/variant", menuHandler.SelectVariant)
		menus.DELETE("/:id/selection", menuHandler.ClearSelection)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 API listening on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
