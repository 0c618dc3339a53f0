package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"jobportal/internal/auth"
	"jobportal/internal/config"
	"jobportal/internal/logging"
	"jobportal/internal/repository"
	"jobportal/internal/service"
)

const defaultSeedTimeout = 30 * time.Second

type seedFlags struct {
	file    string
	timeout time.Duration
}

func newSeedCmd() *cobra.Command {
	flags := &seedFlags{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, companies and jobs from a JSON fixture",
		Long: `Registers the users, companies and job postings listed in a fixture file.
Users and companies that already exist are reused, so the command can be run repeatedly.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "seed.json", "path to the fixture file")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", defaultSeedTimeout, "timeout for store operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, flags *seedFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)

	fx, err := loadFixture(flags.file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
	defer cancel()

	cmd.Printf("Connecting to %s store...\n", cfg.StoreDriver)
	stores, err := repository.Open(ctx, cfg)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
	}
	defer func() { _ = stores.Close(context.Background()) }()

	deps := service.Deps{Logger: logger}
	s := &seeder{
		auth:      service.NewAuthService(stores.Users, auth.NewBcryptHasher(cfg.BcryptCost), auth.NewJWTService(cfg.JWTSecret), nil, deps),
		companies: service.NewCompanyService(stores.Companies, deps),
		jobs:      service.NewJobService(stores.Jobs, stores.Companies, deps),
		users:     stores.Users,
		byName:    stores.Companies,
		out:       cmd.OutOrStdout(),
	}

	sum, err := s.run(ctx, fx)
	if err != nil {
		return err
	}
	cmd.Printf("Seed complete: %d users, %d companies, %d jobs created (%d existing records reused)\n",
		sum.users, sum.companies, sum.jobs, sum.reused)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newSeedCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
