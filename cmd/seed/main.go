package main

import (
	"context"
	"log"
	"os"

	"sapphirus/internal/config"
	"sapphirus/internal/db"
	"sapphirus/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, cfg.SeedCatalogPath); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied from %s", cfg.SeedCatalogPath)
}
