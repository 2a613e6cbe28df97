package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
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

// SetupTestDB creates a PostgreSQL test container and connection pool.
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
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

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

// createSchema creates the catalog schema for testing, mirroring the migrations.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			parent_id    TEXT REFERENCES categories(id),
			display_rank INT  NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS sellers (
			id         TEXT PRIMARY KEY,
			store_name TEXT NOT NULL,
			rating     NUMERIC(3,1) NOT NULL DEFAULT 0.0
				CHECK (rating >= 0.0 AND rating <= 5.0),
			logo_url   TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS products (
			id          UUID PRIMARY KEY,
			seller_id   TEXT NOT NULL REFERENCES sellers(id),
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			category_id TEXT NOT NULL REFERENCES categories(id),
			stock_count INT NOT NULL CHECK (stock_count >= 0),
			condition   TEXT NOT NULL
				CHECK (condition IN ('new', 'like_new', 'good', 'fair')),
			images      TEXT[] NOT NULL DEFAULT '{}'
				CHECK (cardinality(images) <= 5),
			status      TEXT NOT NULL DEFAULT 'active'
				CHECK (status IN ('active', 'inactive', 'sold_out', 'removed')),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_products_listing
			ON products(status, created_at DESC, id);
		CREATE INDEX IF NOT EXISTS idx_products_category
			ON products(category_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts the categories and sellers the API tests rely on.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	categories := []struct {
		id   string
		name string
		rank int
	}{
		{"electronics", "Electronics", 1},
		{"fashion", "Fashion", 2},
		{"home", "Home & Garden", 3},
	}
	for _, c := range categories {
		_, err := pool.Exec(ctx,
			"INSERT INTO categories (id, name, display_rank) VALUES ($1, $2, $3)",
			c.id, c.name, c.rank,
		)
		if err != nil {
			t.Fatalf("failed to seed category %s: %v", c.id, err)
		}
	}

	sellers := []struct {
		id     string
		store  string
		rating float64
	}{
		{"S1", "Alpha Traders", 4.5},
		{"S2", "Beta Goods", 3.8},
	}
	for _, s := range sellers {
		_, err := pool.Exec(ctx,
			"INSERT INTO sellers (id, store_name, rating) VALUES ($1, $2, $3)",
			s.id, s.store, s.rating,
		)
		if err != nil {
			t.Fatalf("failed to seed seller %s: %v", s.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"products", "sellers", "categories"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
