package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	rootCmd := &cobra.Command{
		Use:   "abcsmc",
		Short: "Approximate Bayesian Computation Sequential Monte Carlo inference",
		Long: `abcsmc drives ABC-SMC parameter inference against a stochastic
simulator. It reads a job file describing priors, a tolerance schedule
(or an oversample count for adaptive selection), and a demo target, runs
the generations to completion, and persists the accepted-particle history
as JSON.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	rootCmd.AddCommand(newFitCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
