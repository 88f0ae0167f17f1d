package migrate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func (o *options) invocation(command string) common.Invocation {
	return common.Invocation{Tool: "migrate", Command: command, CI: o.ci, Timeout: o.timeout}
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("up"), func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.OpenConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)

				missing := missingTables(db)
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				details := []string{"schema migration applied", "driver: " + cfg.DatabaseDriver}
				for _, t := range missing {
					details = append(details, "created table: "+t)
				}
				return details, nil
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("status"), func(ctx context.Context) ([]string, error) {
				_, db, err := common.OpenConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				sqlDB, err := db.DB()
				if err != nil {
					return nil, err
				}
				if err := sqlDB.PingContext(ctx); err != nil {
					return nil, fmt.Errorf("db ping: %w", err)
				}
				return append([]string{"database reachable"}, tableStates(db)...), nil
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("plan"), func(ctx context.Context) ([]string, error) {
				_, db, err := common.OpenConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				missing := missingTables(db)
				details := []string{"would apply AutoMigrate for all domain models"}
				if len(missing) == 0 {
					details = append(details, "all tables present; columns and indexes would be reconciled")
				}
				for _, t := range missing {
					details = append(details, "would create table: "+t)
				}
				return append(details, "no mutation executed in plan mode"), nil
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func tableName(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Sprintf("%T", model)
	}
	return stmt.Schema.Table
}

func missingTables(db *gorm.DB) []string {
	var out []string
	for _, m := range database.Models() {
		if !db.Migrator().HasTable(m) {
			out = append(out, tableName(db, m))
		}
	}
	return out
}

func tableStates(db *gorm.DB) []string {
	models := database.Models()
	out := make([]string, 0, len(models))
	for _, m := range models {
		state := "missing"
		if db.Migrator().HasTable(m) {
			state = "present"
		}
		out = append(out, tableName(db, m)+": "+state)
	}
	return out
}
