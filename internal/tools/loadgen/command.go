package loadgen

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/master-items-admin/internal/tools/common"
)

type options struct {
	envFile     string
	baseURL     string
	profile     string
	duration    time.Duration
	rps         int
	concurrency int
	seed        int64
	email       string
	password    string
	ci          bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "loadgen", Short: "Generate list and detail traffic against a running API"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "mixed", "traffic profile: browse|mixed|error-heavy")
	cmd.PersistentFlags().DurationVar(&opts.duration, "duration", 15*time.Second, "traffic duration")
	cmd.PersistentFlags().IntVar(&opts.rps, "rps", 20, "requests per second")
	cmd.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 6, "concurrent workers")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 42, "random seed")
	cmd.PersistentFlags().StringVar(&opts.email, "email", "", "login email (defaults to BOOTSTRAP_ADMIN_EMAIL)")
	cmd.PersistentFlags().StringVar(&opts.password, "password", "", "login password (defaults to BOOTSTRAP_ADMIN_PASSWORD)")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "run",
		Short:        "Run load generation",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := common.Invocation{Tool: "loadgen", Command: "run", CI: opts.ci, Timeout: opts.duration + 15*time.Second}
			_, err := common.Run(inv, func(ctx context.Context) ([]string, error) {
				if err := common.LoadEnvFile(opts.envFile); err != nil {
					return nil, err
				}
				email, password := opts.email, opts.password
				if email == "" {
					email = os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
				}
				if password == "" {
					password = os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
				}
				if password == "" {
					email = ""
				}
				res, err := Run(ctx, Config{
					BaseURL:     opts.baseURL,
					Profile:     opts.profile,
					Duration:    opts.duration,
					RPS:         opts.rps,
					Concurrency: opts.concurrency,
					Seed:        opts.seed,
					Email:       email,
					Password:    password,
				})
				if err != nil {
					return nil, err
				}
				return res.Summary(), nil
			})
			return err
		},
	}
}
