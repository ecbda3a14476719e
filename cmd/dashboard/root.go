package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gdpdash/internal/app"
	"gdpdash/internal/config"
	"gdpdash/internal/crawler"
	"gdpdash/internal/loader"
	"gdpdash/internal/logger"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	dataDir    string
	metric     string
	logLevel   string
	year       int
	top        int
}

// env is everything a subcommand needs once flags are resolved.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	client *crawler.Client
	state  *app.State
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "GDP ranking dashboard",
		Long:          "Loads per-country GDP documents and renders rankings, summaries and country detail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML or TOML configuration file")
	flags.StringVar(&opts.dataDir, "data", "", "Source base directory or URL (overrides sources.base)")
	flags.IntVarP(&opts.year, "year", "y", 0, "Selected year (default: latest in window)")
	flags.StringVarP(&opts.metric, "metric", "m", "", "Ranking metric: total_gdp or gdp_per_capita")
	flags.IntVarP(&opts.top, "top", "n", 0, "Number of countries to show (default: dashboard.top_n)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (overrides logging.level)")

	root.AddCommand(
		newRankCmd(opts),
		newStatsCmd(opts),
		newShowCmd(opts),
		newSearchCmd(opts),
		newChartCmd(opts),
		newValidateCmd(opts),
		newServeCmd(opts),
	)

	return root
}

// setup resolves configuration and wires the fetch and load pipeline.
func (o *options) setup() (*env, error) {
	cfg := config.Default()

	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if o.dataDir != "" {
		cfg.Sources.Base = o.dataDir
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	client := crawler.NewClient(cfg, log)

	state, err := app.NewState(cfg, loader.New(cfg, client, log), log)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, client: client, state: state}, nil
}

// load sets up the pipeline and publishes the first snapshot.
func (o *options) load(cmd *cobra.Command) (*env, error) {
	e, err := o.setup()
	if err != nil {
		return nil, err
	}

	if _, err := e.state.Refresh(cmd.Context()); err != nil {
		return nil, err
	}

	return e, nil
}

func (o *options) selection(e *env) app.Selection {
	return e.state.Select(o.year, o.metric, o.top)
}
