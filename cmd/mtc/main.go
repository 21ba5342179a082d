// Command mtc builds network meta-analysis parameterizations and checks the
// convergence of MCMC output.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/mtc/config"
	"github.com/katalvlaran/mtc/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	metrics    bool

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mtc",
		Short: "Network meta-analysis parameterization and MCMC convergence toolkit",
		Long: `mtc derives the parameterization of a network meta-analysis model
(basic parameters on a spanning tree, inconsistency parameters per cycle class,
or a node split of one comparison) and computes Gelman-Rubin convergence diagnostics for MCMC output.

Configuration is read from the embedded defaults, the file given with --config,
the .env file and finally the MTC_LOG_LEVEL, MTC_BACKEND and MTC_CHAINS
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.metrics {
				return nil
			}
			return telemetry.WriteMetrics(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error), overrides configuration")
	pf.BoolVar(&a.metrics, "metrics", false, "print collected metrics to stderr on exit")

	root.AddCommand(
		newParameterizeCmd(a),
		newDiagnoseCmd(a),
		newRunCmd(a),
		newSplittableCmd(),
		newSchemaCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", a.envFile, err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	log, err := telemetry.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}
