package repository

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Permission{}, &domain.Role{}, &domain.User{}, &domain.MasterItem{}, &domain.UserPreference{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func strPtr(s string) *string { return &s }

var testItemsResource = listing.Resource{
	Name:         "master_items",
	SearchFields: []string{"item_code", "item_name", "item_category", "buyer"},
	Filters: []listing.FilterField{
		{Param: "category", Column: "item_category"},
		{Param: "buyer", Column: "buyer"},
	},
	SortFields:  []string{"item_code", "item_name", "item_category", "buyer", "ppn", "pph"},
	DefaultSort: "item_code",
}

func itemQuery(p listing.Params) listing.ListRequest {
	return listing.BuildQuery(p, testItemsResource)
}

func listingParams(page, perPage string) listing.Params {
	return listing.Params{Page: page, PerPage: perPage}
}

func searchParams(term string) listing.Params {
	return listing.Params{Search: term}
}
