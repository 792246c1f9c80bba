package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// SCANS
	// -------------------------------
	scansSQL := `
		CREATE TABLE IF NOT EXISTS scans (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			image_url VARCHAR(500) NOT NULL,
			language VARCHAR(10) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'UPLOADED',
			menu_id UUID NULL,
			error TEXT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, scansSQL); err != nil {
		return err
	}

	// -------------------------------
	// MENUS
	// -------------------------------
	menusSQL := `
		CREATE TABLE IF NOT EXISTS menus (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			source_image_url VARCHAR(500) NOT NULL,
			source_language VARCHAR(10) NOT NULL,
			items JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, menusSQL); err != nil {
		return err
	}

	// -------------------------------
	// SELECTIONS
	// -------------------------------
	selectionsSQL := `
		CREATE TABLE IF NOT EXISTS selections (
			menu_id UUID NOT NULL,
			user_id UUID NOT NULL,
			state JSONB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (menu_id, user_id)
		)
	`
	if _, err := db.Exec(ctx, selectionsSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
