package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexshd/fairalpha/internal/config"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewCommand builds the fairalpha command tree.
func NewCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "fairalpha",
		Short:        "fairalpha calibrates the significance of the FA*IR ranked fairness test",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	globalFlags.StringVarP(&opts.logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	globalFlags.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")

	cmd.AddCommand(
		NewAdjustCommand(opts),
		NewSweepCommand(opts),
		NewMTableCommand(opts),
		NewVersionCommand(),
	)

	return cmd
}

// NewVersionCommand returns the command that prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s\n", Version)
		},
	}
}

// setup loads configuration and installs the logger. Flags given on the
// command line win over the config file and environment.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("no-color") {
		cfg.Log.NoColor = o.noColor
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	o.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    cfg.Log.NoColor || cmd.ErrOrStderr() != os.Stderr,
	}))
	o.cfg = cfg

	o.logger.Debug("configuration loaded", "path", o.configPath, "search", cfg.SearchConfig())
	return nil
}
