package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cropcal/config"
	"cropcal/pkg/logging"
)

// cli carries what every subcommand needs once PersistentPreRunE has run.
type cli struct {
	cfg     config.AppConfig
	log     *zap.Logger
	verbose bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "cropctl",
		Short: "Operate the crop calendar service from the command line",
		Long: `cropctl previews season calendars, lists the growth-model catalog and
runs weather re-adjustment sweeps over stored plots.

Configuration comes from .env and the environment, as for the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if c.verbose {
				level = "debug"
			}
			log, err := logging.New(level, "console")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg, c.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newModelsCmd(c), newPreviewCmd(c), newSweepCmd(c))
	return root
}
