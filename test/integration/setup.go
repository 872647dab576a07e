package integration

import (
	"context"
	"testing"
	"time"

	"kv-studio/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog inserts one style and one product and returns their ids.
// The image URLs point at imageBaseURL so the magic-prompt flow can fetch
// them from a test server.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool, imageBaseURL string) (styleID, productID int64) {
	t.Helper()

	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO kv_styles (name, prompt, image_url) VALUES ($1, $2, $3) RETURNING id`,
		"Morning Light", "a {product} on a wooden table, soft morning light", imageBaseURL+"/style.png",
	).Scan(&styleID)
	if err != nil {
		t.Fatalf("failed to seed style: %v", err)
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO products (name, description, category, product_type, lora_path, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		"Mocha Latte", "house blend", "coffee", "drink", "NCMocha.safetensors", imageBaseURL+"/product.png",
	).Scan(&productID)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return styleID, productID
}

// CleanupDB cleans all data from the application tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE kv_styles, backgrounds, products, white_products, kv_images RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
