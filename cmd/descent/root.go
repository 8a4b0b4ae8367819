package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optviz/descent/internal/logging"
)

var (
	logLevel  string
	logFormat string
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "descent",
	Short: "Iterative descent optimizers with inspectable trajectories",
	Long: `descent runs classic unconstrained optimization algorithms (steepest
descent, Newton, BFGS, DFP, SR1, Barzilai-Borwein, trust-region dogleg) over a
catalog of 2-D benchmark functions and records the full iteration trajectory
of every run, for study and visualization.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(&logging.Config{
			Level:  logLevel,
			Format: logFormat,
			Output: "stderr",
		})
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (json, console)")
}
