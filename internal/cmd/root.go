// Package cmd wires the pgltap command line interface.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/justingardner/pgl/pkg/config"
	"github.com/justingardner/pgl/pkg/logging"
)

// appContext carries the loaded configuration and logger into subcommands.
type appContext struct {
	Config config.Config
	Logger zerolog.Logger
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd constructs the pgltap command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "pgltap",
		Short: "Intercept keyboard and mouse events at the OS level",
		Long: `pgltap installs a low-level input hook and streams every keyboard and
mouse event as JSON lines. Selected keys can be suppressed so they never
reach other applications. A double press of ESC always ends the session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to config file (default: ./pgl.yaml if present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "override log format (json, console)")

	cmd.AddCommand(newListenCmd(flags))
	cmd.AddCommand(newDoctorCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newAppContext loads configuration, applies flag overrides, and builds the
// logger. Logs go to stderr so stdout stays a clean event stream.
func newAppContext(cmd *cobra.Command, flags *rootFlags) (*appContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		level, err := config.NormalizeLogLevel(flags.logLevel)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Level = level
	}
	if flags.logFormat != "" {
		format, err := config.NormalizeFormat(flags.logFormat)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Format = format
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("source", cfg.Source).Msg("configuration loaded")
	return &appContext{Config: cfg, Logger: logger}, nil
}
