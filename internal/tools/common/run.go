package common

import (
	"context"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/config"
	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/tools/ui"
)

type Action func(context.Context) ([]string, error)

// Invocation describes one tool command run.
type Invocation struct {
	Tool    string
	Command string
	CI      bool
	Timeout time.Duration
}

// Run executes fn either headless (CI) or behind the terminal UI, records
// the outcome metric and, in CI mode, prints the JSON result.
func Run(inv Invocation, fn Action) ([]string, error) {
	start := time.Now()
	title := inv.Tool + " " + inv.Command
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	var (
		details []string
		err     error
	)
	if inv.CI {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		details, err = fn(ctx)
		cancel()
	} else {
		details, err = ui.Run(title, timeout, fn)
	}

	elapsed := time.Since(start)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.RecordToolCommand(context.Background(), inv.Tool, inv.Command, outcome, elapsed)
	if inv.CI {
		_ = WriteResult(os.Stdout, inv, elapsed, details, err)
	}
	return details, err
}

// OpenConfigDB loads envFile, then the config, then opens the database.
func OpenConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// CloseDB releases the pool behind db.
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
