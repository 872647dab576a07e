// Command migrate applies the embedded schema migrations and reports the
// catalog row counts. It reads the same DB_* environment as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"kv-studio/internal/config"
	"kv-studio/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query database name: %w", err)
	}

	for _, table := range []string{"kv_styles", "backgrounds", "products", "white_products", "kv_images"} {
		var count int64
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		logger.Info().Str("table", table).Int64("rows", count).Msg("table ready")
	}

	fmt.Printf("Schema is up to date on database: %s\n", dbName)
	return nil
}
