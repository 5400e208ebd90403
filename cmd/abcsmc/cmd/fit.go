package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dhelms-lab/abcsmc/abc"
	"github.com/dhelms-lab/abcsmc/cmd/abcsmc/internal/demo"
	"github.com/dhelms-lab/abcsmc/config"
	"github.com/dhelms-lab/abcsmc/metrics"
)

func newFitCmd() *cobra.Command {
	var jobPath, outPath string
	var concurrency int

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Run an ABC-SMC fit from a job file to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(jobPath, outPath, concurrency)
		},
	}

	fitCmd.Flags().StringVarP(&jobPath, "job", "j", "", "path to the JSON job file (required)")
	fitCmd.Flags().StringVarP(&outPath, "out", "o", "state.json", "path to write the resulting particle history")
	fitCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "worker count (default: number of CPUs)")
	fitCmd.MarkFlagRequired("job")

	return fitCmd
}

func runFit(jobPath, outPath string, concurrency int) error {
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

	runID := uuid.NewString()
	collector := metrics.New(runID)
	registry := prometheus.NewRegistry()
	if err := collector.Register(registry); err != nil {
		return fmt.Errorf("cmd: registering metrics: %w", err)
	}
	logger.Infow("starting fit", "run_id", runID, "particles", cfg.NParticles(), "adaptive", cfg.Adaptive())

	state, err := abc.NewState(priorSet, handle, cfg,
		abc.WithInitModel(demo.Runner{Target: js.Target}),
		abc.WithDistance(demo.Runner{Target: js.Target}),
		abc.WithMetrics(collector),
		abc.WithPostGen(abc.PostGenFunc(func(snap abc.Snapshot) {
			logger.Infow("generation complete",
				"generation", snap.Generation,
				"np", snap.NP,
				"nprop", snap.NProp,
				"ess", snap.ESS,
				"epsilon", snap.Epsilon,
			)
		})),
	)
	if err != nil {
		return fmt.Errorf("cmd: constructing state: %w", err)
	}

	loop, err := abc.NewLoop(state)
	if err != nil {
		return fmt.Errorf("cmd: constructing loop: %w", err)
	}

	if err := loop.Run(context.Background()); err != nil {
		return fmt.Errorf("cmd: fit failed: %w", err)
	}

	return writeStore(state, outPath)
}

func writeStore(state *abc.State, outPath string) error {
	data, err := json.MarshalIndent(state.Store(), "", "  ")
	if err != nil {
		return fmt.Errorf("cmd: encoding history: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("cmd: writing %s: %w", outPath, err)
	}
	return nil
}
