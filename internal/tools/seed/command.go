package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/tools/common"
)

type options struct {
	envFile             string
	bootstrapAdminEmail string
	ci                  bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.bootstrapAdminEmail, "bootstrap-admin-email", "", "override bootstrap admin email")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts), newDemoItemsCommand(opts))
	return cmd
}

func (o *options) invocation(command string) common.Invocation {
	return common.Invocation{Tool: "seed", Command: command, CI: o.ci, Timeout: time.Minute}
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply default roles, permissions and bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("apply"), func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.OpenConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				email := cfg.BootstrapAdminEmail
				if opts.bootstrapAdminEmail != "" {
					email = opts.bootstrapAdminEmail
				}
				report, err := database.Seed(db, database.SeedOptions{AdminEmail: email, AdminPassword: cfg.BootstrapAdminPassword})
				if err != nil {
					return nil, err
				}
				details := []string{
					fmt.Sprintf("permissions created: %d", report.CreatedPermissions),
					fmt.Sprintf("roles created: %d", report.CreatedRoles),
					fmt.Sprintf("grants added: %d", report.BoundPermissions),
				}
				if report.BootstrapAdmin != "" {
					details = append(details, "super-admin ensured for: "+report.BootstrapAdmin)
				}
				if report.Noop {
					details = append(details, "nothing to do")
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

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("dry-run"), func(ctx context.Context) ([]string, error) {
				if err := common.LoadEnvFile(opts.envFile); err != nil {
					return nil, err
				}
				email := strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL"))
				if opts.bootstrapAdminEmail != "" {
					email = opts.bootstrapAdminEmail
				}
				details := []string{"would ensure permissions: " + strings.Join(database.DefaultPermissionNames(), ", ")}
				grants := database.DefaultRoleGrants()
				roles := make([]string, 0, len(grants))
				for name := range grants {
					roles = append(roles, name)
				}
				sort.Strings(roles)
				for _, name := range roles {
					details = append(details, fmt.Sprintf("would grant role %s: %d permissions", name, len(grants[name])))
				}
				if email != "" {
					details = append(details, "would assign super-admin to: "+email)
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

func newDemoItemsCommand(opts *options) *cobra.Command {
	var (
		count   int
		rngSeed uint64
	)
	cmd := &cobra.Command{
		Use:   "demo-items",
		Short: "Insert sample master items",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(opts.invocation("demo-items"), func(ctx context.Context) ([]string, error) {
				if count <= 0 {
					return nil, fmt.Errorf("count must be > 0")
				}
				_, db, err := common.OpenConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				created, err := database.SeedDemoItems(db.WithContext(ctx), count, rand.New(rand.NewPCG(rngSeed, rngSeed)))
				if err != nil {
					return nil, err
				}
				return []string{
					fmt.Sprintf("master items created: %d", created),
					fmt.Sprintf("already present: %d", count-created),
				}, nil
			})
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of ITEM-#### codes to ensure")
	cmd.Flags().Uint64Var(&rngSeed, "seed", 42, "random seed for generated values")
	return cmd
}
