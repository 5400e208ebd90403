package abc

import (
	"context"

	"github.com/dhelms-lab/abcsmc/simulator"
	"gonum.org/v1/gonum/mat"
)

// Distance summarizes one gdata-target trajectory into the S-length
// distance vector the acceptance test compares against tolerance.
type Distance interface {
	Distance(traj simulator.Trajectory) ([]float64, error)
}

// DistanceFunc adapts a function to Distance.
type DistanceFunc func(traj simulator.Trajectory) ([]float64, error)

func (f DistanceFunc) Distance(traj simulator.Trajectory) ([]float64, error) { return f(traj) }

// BatchDistance summarizes one ldata-target trajectory carrying n
// replicated nodes into an n×S distance matrix, one row per node.
type BatchDistance interface {
	BatchDistance(traj simulator.Trajectory, n int) (*mat.Dense, error)
}

// BatchDistanceFunc adapts a function to BatchDistance.
type BatchDistanceFunc func(traj simulator.Trajectory, n int) (*mat.Dense, error)

func (f BatchDistanceFunc) BatchDistance(traj simulator.Trajectory, n int) (*mat.Dense, error) {
	return f(traj, n)
}

// InitModel builds the concrete Model a Runner consumes from a Handle
// whose gdata slots already carry one proposed particle. Not used for
// ldata-target runs, whose particles all share one trajectory.
type InitModel interface {
	InitModel(ctx context.Context, h *simulator.Handle) (simulator.Model, error)
}

// InitModelFunc adapts a function to InitModel.
type InitModelFunc func(ctx context.Context, h *simulator.Handle) (simulator.Model, error)

func (f InitModelFunc) InitModel(ctx context.Context, h *simulator.Handle) (simulator.Model, error) {
	return f(ctx, h)
}

// PostGen is invoked once per committed generation with a read-only
// snapshot, letting callers log progress, checkpoint state, or plot
// diagnostics without the engine depending on any of those concerns.
type PostGen interface {
	PostGen(snapshot Snapshot)
}

// PostGenFunc adapts a function to PostGen.
type PostGenFunc func(snapshot Snapshot)

func (f PostGenFunc) PostGen(snapshot Snapshot) { f(snapshot) }

// Snapshot is the read-only view of loop progress passed to PostGen.
type Snapshot struct {
	Generation int
	NP         int
	NProp      int
	ESS        float64
	Epsilon    []float64
}
