package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/master-items-admin/internal/config"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
)

// Open connects using the configured driver. sqlite is meant for local runs
// and tests; foreign keys are switched on so junction rows cascade.
func Open(cfg *config.Config) (*gorm.DB, error) {
	start := time.Now()
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		observability.RecordDatabaseStartup(context.Background(), "open", "error", time.Since(start))
		return nil, err
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			observability.RecordDatabaseStartup(context.Background(), "open", "error", time.Since(start))
			return nil, err
		}
	}
	observability.RecordDatabaseStartup(context.Background(), "open", "success", time.Since(start))
	return db, nil
}
