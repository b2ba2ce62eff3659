package integration

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brewpos/internal/catalog"
	"brewpos/internal/database"
	"brewpos/internal/model"
	"brewpos/internal/repository"

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

// SetupTestDB creates a PostgreSQL test container, a connection pool and the schema.
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

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
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

// sampleCatalog is a small menu: latte $4.50 with a +$0.75 large size, and a
// barcoded croissant.
var sampleCatalog = []string{
	`{"category":{"id":"coffee","name":"Coffee","sortOrder":1,"isActive":true}}`,
	`{"category":{"id":"bakery","name":"Bakery","sortOrder":2,"isActive":true}}`,
	`{"product":{"id":"latte","name":"Latte","price":"4.50","category":"coffee","isActive":true,"variants":[{"id":"large","name":"Large","priceModifier":"0.75","type":"size"}]}}`,
	`{"product":{"id":"croissant","name":"Croissant","price":"3.25","category":"bakery","isActive":true,"barcode":"4006381333979"}}`,
}

// SeedCatalog writes the sample catalogue to a gzip file and imports it the way
// the server does at startup.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "menu.jsonl.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create catalogue file: %v", err)
	}
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte(strings.Join(sampleCatalog, "\n") + "\n")); err != nil {
		t.Fatalf("failed to write catalogue file: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("failed to close catalogue file: %v", err)
	}

	logger := zerolog.Nop()
	importer := catalog.NewImporter(catalog.NewFileLoader(logger), repository.NewProductRepository(pool, logger), logger)
	if _, err := importer.Import(context.Background(), path); err != nil {
		t.Fatalf("failed to import catalogue: %v", err)
	}
}

// SeedStaff registers the staff members the test tokens are issued for.
func SeedStaff(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	repo := repository.NewStaffRepository(pool, zerolog.Nop())
	roster := []model.Staff{
		{ID: "cashier-7", Name: "Ana", Role: model.StaffCashier},
		{ID: "cashier-8", Name: "Ben", Role: model.StaffCashier},
		{ID: "manager-1", Name: "Mia", Role: model.StaffAdmin},
	}
	for _, member := range roster {
		member.IsActive = true
		member.CreatedAt = time.Now().UTC()
		if err := repo.Create(context.Background(), &member); err != nil {
			t.Fatalf("failed to seed staff member %s: %v", member.ID, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cash_flows", "settings", "products", "categories", "staff"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
