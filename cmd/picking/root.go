package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/picking/pkg/infrastructure/config"
	"github.com/vsinha/picking/pkg/infrastructure/logging"
	"github.com/vsinha/picking/pkg/interfaces/cli/commands"
)

// app carries what the persistent pre-run prepared for the subcommands
type app struct {
	configFile string
	envFile    string
	logLevel   string

	settings *config.Config
	logger   *zap.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(a.configFile, a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.Log.Level = a.logLevel
	}

	logger, err := logging.NewLogger(settings.Log.Level, settings.Log.Development)
	if err != nil {
		return err
	}

	a.settings = settings
	a.logger = logger
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newPickCmd(a *app) *cobra.Command {
	var cfg commands.PickConfig
	var batchManagement bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Calculate a picking solution for a request.",
		Long: `Reads the stock of a scenario directory (or the database) and computes
which locations to pick the requested products from, in walking order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("batch-management") {
				cfg.BatchManagement = &batchManagement
			}
			return commands.NewPickCommand(cfg, a.settings, a.logger, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ScenarioDir, "scenario", "", "Path to scenario directory containing CSV files")
	flags.StringVar(&cfg.RequestFile, "request", "", "Path to request CSV file (overrides the scenario request)")
	flags.StringVar(&cfg.Source, "source", commands.SourceCSV, "Stock source: csv or database")
	flags.StringSliceVar(&cfg.Warehouses, "warehouse", nil, "Warehouse to pick from (repeatable)")
	flags.BoolVar(&cfg.Everywhere, "everywhere", false, "Pick from every warehouse")
	flags.StringVar(&cfg.Format, "format", "text", "Output format: text, json, csv")
	flags.StringVar(&cfg.OutputDir, "output", "", "Output directory for results (optional)")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose output")
	flags.BoolVar(&cfg.Debug, "debug", false, "Dump the full report structure")
	flags.BoolVar(&cfg.FailOnShortage, "fail-on-shortage", false, "Exit with an error when stock is short")
	flags.BoolVar(&batchManagement, "batch-management", false, "Force the batch-management feature on or off, ignoring config and redis")

	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run migrations manually.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			verbose, _ := cmd.Flags().GetBool("verbose")
			return commands.NewMigrateCommand(a.settings, dir, verbose, a.logger).Execute()
		},
	}
	cmd.Flags().String("dir", "", "Directory containing the migration files (defaults to the configured one)")
	cmd.Flags().Bool("verbose", true, "Log every applied migration")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the database catalog with a scenario directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("scenario")
			return commands.NewSeedCommand(a.settings, dir, a.logger).Execute(cmd.Context())
		},
	}
	cmd.Flags().String("scenario", "", "Path to scenario directory containing CSV files")
	return cmd
}

func Execute(ctx context.Context) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "picking",
		Short:             "Stock allocation and picking engine",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newPickCmd(a), newMigrateCmd(a), newSeedCmd(a))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
