package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
)

// Models lists every table owned by the service, junction tables included
// through the many2many tags.
func Models() []any {
	return []any{
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
		&domain.MasterItem{},
		&domain.UserPreference{},
	}
}

func Migrate(db *gorm.DB) error {
	start := time.Now()
	err := db.AutoMigrate(Models()...)
	recordStage("migrate", err, start)
	return err
}

func recordStage(stage string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordDatabaseStartup(context.Background(), stage, outcome, time.Since(start))
}
