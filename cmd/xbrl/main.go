// Command xbrl rebuilds financial statements from the XBRL documents of a filing.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"xbrl_statements/pkg/core/config"
	"xbrl_statements/pkg/core/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	pretty     bool
}

// runtime is what a subcommand gets after flags and configuration are resolved.
type runtime struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "xbrl",
		Short: "Rebuild financial statements from XBRL filings",
		Long: `xbrl reads the instance document of a filing together with its label and
presentation linkbases and writes human-readable statement tables.

Examples:
  xbrl extract goog/Q1/goog-20250331_htm.xml
  xbrl extract goog-20250331_htm.xml "balance sheet" goodwill --format csv,md
  xbrl roles goog-20250331_htm.xml
  xbrl fetch GOOG --form 10-Q --extract
  xbrl serve goog-20250331_htm.xml --addr :8080`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (.yaml, .json or .hjson)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Human readable console logs")

	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newRolesCmd(opts))
	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	return rootCmd
}

// setup loads the configuration and builds the root logger. Explicit flags win over the config.
func (o *rootOptions) setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.pretty {
		cfg.LogPretty = true
	}
	return &runtime{
		cfg: cfg,
		log: logging.New(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr()),
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
