package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/dhelms-lab/abcsmc/abc"
	"github.com/dhelms-lab/abcsmc/cmd/abcsmc/internal/demo"
	"github.com/dhelms-lab/abcsmc/config"
	"github.com/dhelms-lab/abcsmc/particle"
)

func newContinueCmd() *cobra.Command {
	var jobPath, statePath, extensionPath, outPath string
	var concurrency int

	continueCmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume a completed run with additional tolerance columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContinue(jobPath, statePath, extensionPath, outPath, concurrency)
		},
	}

	continueCmd.Flags().StringVarP(&jobPath, "job", "j", "", "path to the JSON job file the original fit used (required)")
	continueCmd.Flags().StringVarP(&statePath, "state", "s", "", "path to the persisted history from a prior fit or continue (required)")
	continueCmd.Flags().StringVarP(&extensionPath, "extension", "e", "", "path to a JSON S x G' tolerance matrix to append (required)")
	continueCmd.Flags().StringVarP(&outPath, "out", "o", "state.json", "path to write the extended history")
	continueCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "worker count (default: number of CPUs)")
	continueCmd.MarkFlagRequired("job")
	continueCmd.MarkFlagRequired("state")
	continueCmd.MarkFlagRequired("extension")

	return continueCmd
}

func runContinue(jobPath, statePath, extensionPath, outPath string, concurrency int) error {
	logger := newLogger()
	defer logger.Sync()

	js, err := loadJobSpec(jobPath)
	if err != nil {
		return err
	}
	priorSet, err := js.buildPriors()
	if err != nil {
		return err
	}
	handle, err := js.buildHandle(priorSet.Names())
	if err != nil {
		return err
	}
	cfg, err := js.buildConfig(concurrency, config.WithLogger(logger))
	if err != nil {
		return err
	}

	history, err := loadStore(statePath)
	if err != nil {
		return err
	}
	extension, err := loadMatrix(extensionPath)
	if err != nil {
		return err
	}

	state, err := abc.NewState(priorSet, handle, cfg,
		abc.WithInitModel(demo.Runner{Target: js.Target}),
		abc.WithDistance(demo.Runner{Target: js.Target}),
		abc.WithHistory(history),
	)
	if err != nil {
		return fmt.Errorf("cmd: constructing state: %w", err)
	}

	loop, err := abc.Continue(state, extension)
	if err != nil {
		return fmt.Errorf("cmd: continue: %w", err)
	}

	if err := loop.Run(context.Background()); err != nil {
		return fmt.Errorf("cmd: continue failed: %w", err)
	}

	return writeStore(state, outPath)
}

func loadStore(path string) (*particle.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: reading %s: %w", path, err)
	}
	store := particle.NewStore()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("cmd: decoding history %s: %w", path, err)
	}
	return store, nil
}

func loadMatrix(path string) (*mat.Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: reading %s: %w", path, err)
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("cmd: decoding matrix %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cmd: %s: empty matrix", path)
	}
	return scheduleToDense(rows), nil
}
