package main

import (
	"context"
	"log"
	"os"
	"time"

	"menulens/internal/db"
	"menulens/internal/llm"
	"menulens/internal/menu"
	"menulens/internal/scan"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	log.Println("🧠 Parse worker starting...")

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	gateway := llm.NewGateway(llm.NewGeminiClient(), llm.DefaultRetryPolicy())
	worker := scan.NewWorker(
		scan.NewPostgresRepository(pgDB),
		menu.NewPostgresRepository(pgDB),
		gateway,
	)

	log.Println("✅ Parse worker initialized and running...")
	log.Println("Processing pending scans every 2 seconds. Press Ctrl+C to stop.")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := worker.ProcessOne(context.Background()); err != nil {
			log.Printf("⚠️  parse worker error: %v", err)
		}
	}
}
