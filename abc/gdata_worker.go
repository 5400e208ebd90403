package abc

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/dhelms-lab/abcsmc/proposal"
	"github.com/dhelms-lab/abcsmc/weight"
	"gonum.org/v1/gonum/mat"
)

type acceptedGData struct {
	x []float64
	d []float64
}

// runGDataGeneration accepts N_p particles for a gdata-target run: each
// worker owns an independent trajectory (one particle per trajectory), and
// an atomic counter gated by the tolerance test stops every worker at N_p
// accepted, per the concurrency model's gdata branch.
func (l *Loop) runGDataGeneration(ctx context.Context, g int, prevGen *particle.Generation, eps []float64) (*particle.Generation, error) {
	np := l.state.cfg.NParticles()
	k := l.state.priors.K()

	var kernel *weight.Kernel
	if prevGen != nil {
		var err error
		kernel, err = weight.NewKernel(prevGen.X())
		if err != nil {
			return nil, &ConstructionError{Field: "kernel", Err: err}
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan acceptedGData, np)
	var accepted atomic.Int64
	var nprop atomic.Int64
	var failures atomic.Int64
	var firstErr atomic.Value // stores error
	var wg sync.WaitGroup
	maxFailures := int64(l.state.cfg.MaxFailures())

	concurrency := l.state.cfg.Concurrency()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(l.state.cfg.Seed())*1000003 + int64(g)*997 + int64(workerID)))
			handle := l.state.handle.Clone()

			for {
				select {
				case <-workerCtx.Done():
					return
				default:
				}
				if accepted.Load() >= int64(np) {
					return
				}

				var prop proposal.Proposal
				var err error
				if prevGen == nil {
					prop = l.sampler.SampleGeneration0(rng)
				} else {
					prop, err = l.sampler.Sample(rng, prevGen.X(), prevGen.W(), kernel)
					if err != nil {
						storeFirstErr(&firstErr, &SimulationError{Generation: g, Err: err})
						cancel()
						return
					}
				}
				nprop.Add(1)

				if err := applyGData(l.state.priors, handle, prop.X); err != nil {
					storeFirstErr(&firstErr, &ConstructionError{Field: "gdata", Err: err})
					cancel()
					return
				}

				model, err := l.state.initModel.InitModel(workerCtx, handle)
				if err != nil {
					storeFirstErr(&firstErr, &SimulationError{Generation: g, Err: err})
					cancel()
					return
				}
				traj, err := handle.Run(workerCtx, model)
				if err != nil {
					if workerCtx.Err() != nil {
						return
					}
					l.state.cfg.Logger().Warnw("trajectory failed, discarding and retrying", "generation", g, "worker", workerID, "error", err)
					if failures.Add(1) > maxFailures {
						storeFirstErr(&firstErr, &SimulationError{Generation: g, Err: ErrFailureBudgetExceeded})
						cancel()
						return
					}
					continue
				}
				d, err := l.state.distance.Distance(traj)
				if err != nil {
					storeFirstErr(&firstErr, &DistanceError{Generation: g, Err: err})
					cancel()
					return
				}
				if err := validateDistance(d, len(eps)); err != nil {
					storeFirstErr(&firstErr, &DistanceError{Generation: g, Err: err})
					cancel()
					return
				}
				if !withinTolerance(d, eps) {
					continue
				}

				for {
					cur := accepted.Load()
					if cur >= int64(np) {
						break
					}
					if accepted.CompareAndSwap(cur, cur+1) {
						results <- acceptedGData{x: prop.X, d: d}
						if cur+1 == int64(np) {
							cancel()
						}
						break
					}
				}
			}
		}(w)
	}

	wg.Wait()
	close(results)

	if v := firstErr.Load(); v != nil {
		return nil, v.(error)
	}
	if ctx.Err() != nil {
		return nil, &CancelledError{Generation: g}
	}
	if int(accepted.Load()) < np {
		return nil, &CancelledError{Generation: g}
	}

	s := len(eps)
	x := mat.NewDense(np, k, nil)
	d := mat.NewDense(np, s, nil)
	i := 0
	for r := range results {
		x.SetRow(i, r.x)
		d.SetRow(i, r.d)
		i++
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

	return particle.NewGeneration(x, w, d, eps, int(nprop.Load()))
}

func storeFirstErr(v *atomic.Value, err error) {
	v.CompareAndSwap(nil, err)
}
