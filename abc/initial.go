package abc

import (
	"context"
	"math/rand"
	"sync"

	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/proposal"
	"gonum.org/v1/gonum/mat"
)

// runInitialOversample implements generation 1's adaptive branch: draw
// n_init independent prior proposals, evaluate every one (no acceptance
// gating), then delegate to the tolerance selector's sort-and-truncate
// rule to pick eps^(1) and the top N_p particles. The full n_init×k pool
// is returned alongside the truncated generation because it doubles as
// the source sample for the first KLIEP-based tolerance update.
func (l *Loop) runInitialOversample(ctx context.Context) (*particle.Generation, *mat.Dense, error) {
	nInit := l.state.cfg.NInit()
	k := l.state.priors.K()

	xPool := mat.NewDense(nInit, k, nil)
	dPool := mat.NewDense(nInit, 1, nil)

	if l.state.priors.Target() == priors.LData {
		if err := l.evaluateInitialBatchLData(ctx, nInit, xPool, dPool); err != nil {
			return nil, nil, err
		}
	} else {
		if err := l.evaluateInitialGData(ctx, nInit, xPool, dPool); err != nil {
			return nil, nil, err
		}
	}

	eps, keep, err := l.selector.InitialTolerance(dPool)
	if err != nil {
		return nil, nil, &ToleranceError{Generation: 1, Err: err}
	}

	np := len(keep)
	x := mat.NewDense(np, k, nil)
	d := mat.NewDense(np, 1, nil)
	for i, idx := range keep {
		x.SetRow(i, mat.Row(nil, idx, xPool))
		d.Set(i, 0, dPool.At(idx, 0))
	}

	w := l.updater.Generation0(np)
	gen, err := particle.NewGeneration(x, w, d, []float64{eps}, nInit)
	if err != nil {
		return nil, nil, err
	}
	return gen, xPool, nil
}

func (l *Loop) evaluateInitialGData(ctx context.Context, nInit int, xPool, dPool *mat.Dense) error {
	concurrency := l.state.cfg.Concurrency()
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	errCh := make(chan error, nInit)

	for i := 0; i < nInit; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(int64(l.state.cfg.Seed())*1000003 + int64(i)))
			handle := l.state.handle.Clone()
			prop := l.sampler.SampleGeneration0(rng)

			if err := applyGData(l.state.priors, handle, prop.X); err != nil {
				errCh <- err
				return
			}
			model, err := l.state.initModel.InitModel(ctx, handle)
			if err != nil {
				errCh <- &SimulationError{Generation: 1, Err: err}
				return
			}
			traj, err := handle.Run(ctx, model)
			if err != nil {
				errCh <- &SimulationError{Generation: 1, Err: err}
				return
			}
			d, err := l.state.distance.Distance(traj)
			if err != nil {
				errCh <- &DistanceError{Generation: 1, Err: err}
				return
			}
			if len(d) != 1 {
				errCh <- &ConstructionError{Field: "distance", Err: ErrAdaptiveRequiresSingleStatistic}
				return
			}
			if err := validateDistance(d, 1); err != nil {
				errCh <- &DistanceError{Generation: 1, Err: err}
				return
			}
			xPool.SetRow(i, prop.X)
			dPool.Set(i, 0, d[0])
		}(i)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return err
	}
	return ctx.Err()
}

func (l *Loop) evaluateInitialBatchLData(ctx context.Context, nInit int, xPool, dPool *mat.Dense) error {
	rng := rand.New(rand.NewSource(int64(l.state.cfg.Seed()) * 1000003))
	offset := 0
	batchMax := l.state.cfg.BatchMax()

	for offset < nInit {
		n := nInit - offset
		if n > batchMax {
			n = batchMax
		}

		props := make([]proposal.Proposal, n)
		for i := range props {
			props[i] = l.sampler.SampleGeneration0(rng)
		}

		replicated, err := l.state.handle.ReplicateFirstNode(n)
		if err != nil {
			return &ConstructionError{Field: "replicate_first_node", Err: err}
		}
		for col, p := range props {
			if err := applyLData(l.state.priors, replicated, p.X, col); err != nil {
				return &ConstructionError{Field: "ldata", Err: err}
			}
		}
		traj, err := replicated.Run(ctx, l.state.baseModel)
		if err != nil {
			return &SimulationError{Generation: 1, Err: err}
		}
		d, err := l.state.batchDistance.BatchDistance(traj, n)
		if err != nil {
			return &DistanceError{Generation: 1, Err: err}
		}
		dr, dc := d.Dims()
		if dc != 1 {
			return &ConstructionError{Field: "distance", Err: ErrAdaptiveRequiresSingleStatistic}
		}
		if dr != n {
			return &DistanceError{Generation: 1, Err: ErrBatchDistanceShape}
		}

		for i := 0; i < n; i++ {
			v := d.At(i, 0)
			if err := validateDistance([]float64{v}, 1); err != nil {
				return &DistanceError{Generation: 1, Err: err}
			}
			xPool.SetRow(offset+i, props[i].X)
			dPool.Set(offset+i, 0, v)
		}
		offset += n
	}
	return nil
}
