// Package demo provides a self-contained toy Runner so the abcsmc CLI can
// be exercised end to end without a real stochastic simulator wired in.
// It targets a fixed point in gdata parameter space and reports Euclidean
// distance; it is intentionally not part of the abc/simulator domain
// packages, since a real deployment supplies its own Runner.
package demo

import (
	"context"
	"math"

	"github.com/dhelms-lab/abcsmc/simulator"
)

// Runner reports the Euclidean distance from a proposed gdata vector to
// a fixed target point, standing in for a real trajectory simulator.
type Runner struct {
	Target []float64
}

// Run treats model as the proposed gdata vector (as built by InitModel)
// and returns it unchanged; the actual work happens in Distance.
func (r Runner) Run(ctx context.Context, model simulator.Model) (simulator.Trajectory, error) {
	return model, nil
}

// InitModel builds the Model consumed by Run from the Handle's current
// gdata vector.
func (r Runner) InitModel(ctx context.Context, h *simulator.Handle) (simulator.Model, error) {
	return h.GData(), nil
}

// Distance reports the Euclidean distance between the proposed point and
// Target as the single summary statistic.
func (r Runner) Distance(traj simulator.Trajectory) ([]float64, error) {
	x := traj.([]float64)
	sum := 0.0
	for i, xi := range x {
		d := xi - r.Target[i]
		sum += d * d
	}
	return []float64{math.Sqrt(sum)}, nil
}
