package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statlab/adapters/rng"
	"statlab/app"
	"statlab/internal"
	"statlab/internal/config"
	"statlab/internal/errors"
)

// env is what every subcommand needs, built once flags are parsed
type env struct {
	cfg     *config.Config
	logger  *internal.Logger
	samples *app.SampleService
	metas   *app.MetaService
	sims    *app.SimulationService
	jsonOut bool
}

type globalFlags struct {
	envFile string
	level   float64
	seed    int64
	workers int
	jsonOut bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		appErr := errors.FromDomain(err)
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(appErr), err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var e env

	rootCmd := &cobra.Command{
		Use:           "statlab",
		Short:         "Confidence intervals, robust statistics, outlier screening and meta-analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := buildEnv(cmd, flags)
			if err != nil {
				return err
			}
			e = *built
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Environment file loaded before reading configuration")
	pf.Float64Var(&flags.level, "level", 0, "Confidence level in (0,1] (default from STATLAB_CONFIDENCE_LEVEL or 0.95)")
	pf.Int64Var(&flags.seed, "seed", 0, "Seed for reproducible resampling; unset draws fresh randomness")
	pf.IntVar(&flags.workers, "workers", 0, "Maximum concurrent computations (default from STATLAB_MAX_WORKERS)")
	pf.BoolVar(&flags.jsonOut, "json", false, "Print results as JSON")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log at DEBUG level")

	rootCmd.AddCommand(
		newCICmd(&e),
		newRobustCmd(&e),
		newOutliersCmd(&e),
		newBootstrapCmd(&e),
		newMetaCmd(&e),
		newEffectCmd(&e),
		newSimulateCmd(&e),
	)
	return rootCmd
}

// buildEnv loads .env and the environment, then applies flag overrides
func buildEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	if err := godotenv.Load(flags.envFile); err != nil && cmd.Flags().Changed("env-file") {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "loading %s", flags.envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("level") {
		cfg.Estimation.ConfidenceLevel = flags.level
	}
	if cmd.Flags().Changed("seed") {
		cfg.Estimation.Seed = flags.seed
		cfg.Estimation.HasSeed = true
	}
	if cmd.Flags().Changed("workers") {
		cfg.Runtime.MaxWorkers = flags.workers
	}
	if flags.verbose {
		cfg.Runtime.LogLevel = internal.LogLevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := internal.NewLogger(cfg.Runtime.LogLevel)
	rngAdapter := rng.NewAdapter()
	logger.Debug("config: level=%.3f resamples=%d seeded=%v workers=%d model=%s",
		cfg.Estimation.ConfidenceLevel, cfg.Estimation.Resamples, cfg.Estimation.HasSeed,
		cfg.Runtime.MaxWorkers, cfg.Meta.Model)

	return &env{
		cfg:     cfg,
		logger:  logger,
		samples: app.NewSampleService(rngAdapter, logger, cfg.Runtime.MaxWorkers),
		metas:   app.NewMetaService(logger),
		sims:    app.NewSimulationService(rngAdapter, logger, cfg.Runtime.MaxWorkers),
		jsonOut: flags.jsonOut,
	}, nil
}

func (e *env) seeding() app.Seeding {
	return app.Seeding{Seed: e.cfg.Estimation.Seed, HasSeed: e.cfg.Estimation.HasSeed}
}
