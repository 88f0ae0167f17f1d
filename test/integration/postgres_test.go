//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/config"
	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

const defaultPostgresTestImage = "docker.io/library/postgres:16-alpine"

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	image := os.Getenv("POSTGRES_TEST_IMAGE")
	if strings.TrimSpace(image) == "" {
		image = defaultPostgresTestImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: image,
			Env: map[string]string{
				"POSTGRES_USER":     "items",
				"POSTGRES_PASSWORD": "items",
				"POSTGRES_DB":       "items",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("resolve postgres port: %v", err)
	}

	db, err := database.Open(&config.Config{
		DatabaseDriver: config.DriverPostgres,
		DatabaseURL:    fmt.Sprintf("postgres://items:items@%s:%s/items?sslmode=disable", host, port.Port()),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPostgresSeedIsRepeatable(t *testing.T) {
	db := newPostgresDB(t)

	first, err := database.Seed(db, database.SeedOptions{AdminEmail: superAdminEmail, AdminPassword: superAdminPassword})
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if first.Noop || first.CreatedRoles != 3 {
		t.Fatalf("first seed should create the default roles: %+v", first)
	}
	second, err := database.Seed(db, database.SeedOptions{AdminEmail: superAdminEmail, AdminPassword: superAdminPassword})
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !second.Noop {
		t.Fatalf("second seed should change nothing: %+v", second)
	}
}

func TestPostgresMasterItemListing(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	svc := service.NewMasterItemService(repository.NewMasterItemRepository(db))

	for i := 1; i <= 12; i++ {
		buyer := "Team A"
		if i%3 == 0 {
			buyer = "50% Off Buyer"
		}
		if _, err := svc.Create(ctx, service.MasterItemInput{
			ItemCode: fmt.Sprintf("PG-%02d", i),
			ItemName: fmt.Sprintf("Postgres item %d", i),
			Buyer:    &buyer,
		}); err != nil {
			t.Fatalf("create item %d: %v", i, err)
		}
	}

	idx, err := svc.List(ctx, listing.Params{Search: "50%", PerPage: "20"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if idx.Page.Total != 4 {
		t.Fatalf("percent in search must match literally, got %d rows", idx.Page.Total)
	}
	if idx.Request.PerPage != 20 || len(idx.Buyers) != 2 {
		t.Fatalf("unexpected request or buyers: perPage=%d buyers=%v", idx.Request.PerPage, idx.Buyers)
	}

	if err := svc.Delete(ctx, idx.Page.Items[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var live int64
	if err := db.Model(&domain.MasterItem{}).Count(&live).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if live != 11 {
		t.Fatalf("expected 11 live items, got %d", live)
	}
}
