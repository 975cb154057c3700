package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/config"
	"github.com/chis/servicebook/internal/logging"
	"github.com/chis/servicebook/internal/output"
	"github.com/chis/servicebook/internal/propagate"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	ConfigPath  string
	CatalogPath string
	Propagation string
	LogLevel    string
	LogFormat   string
	JSON        bool
}

// runtime is what a command needs after flags, config and catalog are resolved
type runtime struct {
	Config  config.Config
	Catalog *catalog.Catalog
	Mode    propagate.Mode
	Logger  *logging.Logger
}

// newRootCmd builds the command tree. Running the root without a
// subcommand opens the interactive form.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "servicebook",
		Short: "Book car services and get an estimate",
		Long: `servicebook shows the car service booking form in the terminal.
Services appear once one of their prerequisite services is selected, and the
estimate only counts services that are both visible and selected.`,
		Version:      output.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, opts)
		},
	}
	root.SetVersionTemplate(`{{printf "servicebook version %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to the config file")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "path to a catalog YAML file (default: built-in catalog)")
	flags.StringVar(&opts.Propagation, "propagation", "", "propagation mode: shallow or fixed-point")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&opts.JSON, "json", false, "print results as JSON")

	root.AddCommand(
		newFormCmd(opts),
		newQuoteCmd(opts),
		newTreeCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves config (file, .env, environment, then flags), builds the
// logger and loads the catalog
func setup(cmd *cobra.Command, opts *globalOptions) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg = config.MergeConfigs(cfg, config.Config{
		CatalogPath: opts.CatalogPath,
		Propagation: opts.Propagation,
		LogLevel:    opts.LogLevel,
		LogFormat:   opts.LogFormat,
	})
	cfg.Normalize()
	if result := cfg.Validate(); !result.IsValid() {
		return nil, fmt.Errorf("invalid flags: %v", result.Errors)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	logging.SetDefault(logger)

	mode, err := propagate.ParseMode(cfg.Propagation)
	if err != nil {
		return nil, err
	}

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded catalog with %d services", cat.Graph.Len())

	return &runtime{Config: cfg, Catalog: cat, Mode: mode, Logger: logger}, nil
}

func newLogger(w io.Writer, cfg config.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogLevel == "" {
		level = logging.LevelWarn
	}
	return logging.NewWithWriter(w, level, cfg.LogFormat == "json")
}

// fail writes err as a JSON envelope in --json mode and returns it
func fail(cmd *cobra.Command, opts *globalOptions, err error) error {
	if opts.JSON {
		_ = output.WriteJSONError(cmd.OutOrStdout(), err)
	}
	return err
}
