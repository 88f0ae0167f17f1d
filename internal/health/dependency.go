package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CheckFunc adapts a probe function to Checker.
type CheckFunc struct {
	Name  string
	Probe func(ctx context.Context) error
}

func (f CheckFunc) Check(ctx context.Context) CheckResult {
	if err := f.Probe(ctx); err != nil {
		return CheckResult{Name: f.Name, Healthy: false, Error: err.Error()}
	}
	return CheckResult{Name: f.Name, Healthy: true}
}

// NewDBChecker pings the primary database. A nil db yields no checker.
func NewDBChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return CheckFunc{Name: "db", Probe: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

var errRBACNotSeeded = errors.New("permission catalogue is empty; run the seed command")

// NewRBACSeedChecker reports unready until the permission catalogue has been
// seeded. Without it every gated route answers 403.
func NewRBACSeedChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return CheckFunc{Name: "rbac_seed", Probe: func(ctx context.Context) error {
		var n int64
		if err := db.WithContext(ctx).Table("permissions").Count(&n).Error; err != nil {
			return fmt.Errorf("count permissions: %w", err)
		}
		if n == 0 {
			return errRBACNotSeeded
		}
		return nil
	}}
}

// NewRedisChecker pings the rate limiter backend. A nil client yields no
// checker.
func NewRedisChecker(client redis.UniversalClient) Checker {
	if client == nil {
		return nil
	}
	return CheckFunc{Name: "redis", Probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}
