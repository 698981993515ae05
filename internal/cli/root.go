// Package cli implements the edgesentry command tree. Every command runs
// the simulator in-process; only serve opens a listening socket.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/edgesentry/internal/config"
	"github.com/me/edgesentry/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the edgesentry CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edgesentry",
		Short: "edgesentry — admission-control simulator for sensor workloads",
		Long: `edgesentry replays sensor task workloads through competing admission
policies and reports how each one spends a fixed CPU budget.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Default()
			if flagConfig != "" {
				var err error
				if cfg, err = config.Load(flagConfig); err != nil {
					return err
				}
			}
			if flagDebug {
				flagLogLevel = "debug"
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Shorthand for --log-level=debug")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newGenerateCmd(),
		newTrainCmd(),
		newCompareCmd(),
		newServeCmd(),
	)

	return root
}
