package abc

import (
	"context"
	"math/rand"

	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/dhelms-lab/abcsmc/proposal"
	"github.com/dhelms-lab/abcsmc/weight"
	"gonum.org/v1/gonum/mat"
)

// runLDataGeneration accepts N_p particles for an ldata-target run by
// packing many particles into the nodes of a single replicated trajectory.
// The batch size starts at cfg.BatchInitial() and doubles, capped at
// cfg.BatchMax(), whenever nprop exceeds 2n within the generation.
func (l *Loop) runLDataGeneration(ctx context.Context, g int, prevGen *particle.Generation, eps []float64) (*particle.Generation, error) {
	np := l.state.cfg.NParticles()
	k := l.state.priors.K()
	s := len(eps)

	var kernel *weight.Kernel
	if prevGen != nil {
		var err error
		kernel, err = weight.NewKernel(prevGen.X())
		if err != nil {
			return nil, &ConstructionError{Field: "kernel", Err: err}
		}
	}

	rng := rand.New(rand.NewSource(int64(l.state.cfg.Seed())*1000003 + int64(g)*997))

	accX := make([][]float64, 0, np)
	accD := make([][]float64, 0, np)
	totalNProp := 0
	batch := l.state.cfg.BatchInitial()
	failures := 0
	maxFailures := l.state.cfg.MaxFailures()

	for len(accX) < np {
		select {
		case <-ctx.Done():
			return nil, &CancelledError{Generation: g}
		default:
		}

		n := batch
		if n > l.state.cfg.BatchMax() {
			n = l.state.cfg.BatchMax()
		}

		props := make([]proposal.Proposal, n)
		var err error
		if prevGen == nil {
			for i := range props {
				props[i] = l.sampler.SampleGeneration0(rng)
			}
		} else {
			props, err = l.sampler.SampleBatch(rng, prevGen.X(), prevGen.W(), kernel, n)
			if err != nil {
				return nil, &SimulationError{Generation: g, Err: err}
			}
		}

		replicated, err := l.state.handle.ReplicateFirstNode(n)
		if err != nil {
			return nil, &ConstructionError{Field: "replicate_first_node", Err: err}
		}
		for col, p := range props {
			if err := applyLData(l.state.priors, replicated, p.X, col); err != nil {
				return nil, &ConstructionError{Field: "ldata", Err: err}
			}
		}

		traj, err := replicated.Run(ctx, l.state.baseModel)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &CancelledError{Generation: g}
			}
			l.state.cfg.Logger().Warnw("batch trajectory failed, discarding and retrying", "generation", g, "batch", n, "error", err)
			failures++
			if failures > maxFailures {
				return nil, &SimulationError{Generation: g, Err: ErrFailureBudgetExceeded}
			}
			continue
		}
		d, err := l.state.batchDistance.BatchDistance(traj, n)
		if err != nil {
			return nil, &DistanceError{Generation: g, Err: err}
		}
		dr, dc := d.Dims()
		if dr != n || dc != s {
			return nil, &DistanceError{Generation: g, Err: ErrBatchDistanceShape}
		}

		totalNProp += n
		for i := 0; i < n && len(accX) < np; i++ {
			row := mat.Row(nil, i, d)
			if err := validateDistance(row, s); err != nil {
				return nil, &DistanceError{Generation: g, Err: err}
			}
			if withinTolerance(row, eps) {
				accX = append(accX, props[i].X)
				accD = append(accD, row)
			}
		}

		if len(accX) >= np {
			break
		}
		if totalNProp > 2*n && batch < l.state.cfg.BatchMax() {
			batch *= 2
			if batch > l.state.cfg.BatchMax() {
				batch = l.state.cfg.BatchMax()
			}
		}
	}

	x := mat.NewDense(np, k, nil)
	d := mat.NewDense(np, s, nil)
	for i := 0; i < np; i++ {
		x.SetRow(i, accX[i])
		d.SetRow(i, accD[i])
	}

	var w []float64
	if prevGen == nil {
		w = l.updater.Generation0(np)
	} else {
		var err error
		w, _, err = l.updater.Update(x, prevGen.X(), prevGen.W(), kernel)
		if err != nil {
			return nil, &ConstructionError{Field: "weights", Err: err}
		}
	}

	return particle.NewGeneration(x, w, d, eps, totalNProp)
}
