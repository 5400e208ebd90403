package abc

import (
	"context"
	"fmt"
	"time"

	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/proposal"
	"github.com/dhelms-lab/abcsmc/tolerance"
	"github.com/dhelms-lab/abcsmc/weight"
	"gonum.org/v1/gonum/mat"
)

// Loop orchestrates generations against a State: proposal, simulation,
// distance, acceptance, weighting, and tolerance selection, until the
// tolerance schedule is exhausted or the stopping rule fires.
//
// schedule is the source of truth for explicit-schedule runs; it is nil
// for adaptive runs. It is a Loop field rather than read straight off
// state.cfg.Schedule() so that Continue can hand a Loop a schedule
// extended past what the State was originally configured with.
type Loop struct {
	state    *State
	sampler  *proposal.Sampler
	updater  *weight.Updater
	selector *tolerance.Selector

	schedule *mat.Dense
	startGen int

	initPool *mat.Dense // adaptive mode only: generation 1's full n_init sample
}

// NewLoop constructs a Loop for state, starting from generation 1. In
// adaptive mode (state.cfg has no explicit tolerance schedule),
// state.cfg.NInit() must be greater than state.cfg.NParticles();
// config.WithNInit already enforces that.
func NewLoop(state *State) (*Loop, error) {
	if state.cfg.Adaptive() && state.cfg.NInit() == 0 {
		return nil, &ConstructionError{Field: "NInit", Err: fmt.Errorf("adaptive runs require config.WithNInit")}
	}

	l := &Loop{
		state:    state,
		sampler:  proposal.NewSampler(state.priors).WithMaxRejections(state.cfg.MaxRejections()),
		updater:  weight.NewUpdater(state.priors),
		schedule: state.cfg.Schedule(),
		startGen: 1,
	}
	if l.schedule == nil {
		l.selector = tolerance.NewSelector(state.cfg.NParticles())
	}
	return l, nil
}

// Run drives generations to completion. It returns nil when the tolerance
// schedule is exhausted or the stopping rule fires; otherwise it returns
// the first typed error encountered, and no partial generation is
// committed to the store.
func (l *Loop) Run(ctx context.Context) error {
	g := l.startGen
	var eps []float64

	for {
		if err := ctx.Err(); err != nil {
			return &CancelledError{Generation: g}
		}

		start := time.Now()
		gen, err := l.runOneGeneration(ctx, g, eps)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		if err := l.state.store.Push(gen); err != nil {
			return &ToleranceError{Generation: g, Err: err}
		}
		l.reportProgress(g, gen, elapsed)

		nextEps, stop, err := l.nextTolerance(g, gen)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		eps = nextEps
		g++
	}
}

// runOneGeneration builds generation g given the eps it should accept
// under (empty on the first adaptive generation, where eps is derived
// from the n_init oversample instead).
func (l *Loop) runOneGeneration(ctx context.Context, g int, eps []float64) (*particle.Generation, error) {
	var prevGen *particle.Generation
	if g > 1 {
		var err error
		prevGen, err = l.state.store.Last()
		if err != nil {
			return nil, &ConstructionError{Field: "history", Err: err}
		}
	}

	if g == 1 && l.schedule == nil {
		gen, pool, err := l.runInitialOversample(ctx)
		if err != nil {
			return nil, err
		}
		l.initPool = pool
		return gen, nil
	}

	if eps == nil {
		eps = mat.Col(nil, g-1, l.schedule)
	}

	if l.state.priors.Target() == priors.LData {
		return l.runLDataGeneration(ctx, g, prevGen, eps)
	}
	return l.runGDataGeneration(ctx, g, prevGen, eps)
}

// nextTolerance computes eps^(g+1): from the explicit schedule's next
// column, or via the adaptive selector using generation g and its
// predecessor (generation 1's n_init pool stands in for a predecessor
// when g==1, since generation 1 has no committed ancestor generation).
func (l *Loop) nextTolerance(g int, gen *particle.Generation) (eps []float64, stop bool, err error) {
	if l.schedule != nil {
		_, cols := l.schedule.Dims()
		if g >= cols {
			return nil, true, nil
		}
		next := mat.Col(nil, g, l.schedule)
		return next, false, nil
	}

	var xPrev *mat.Dense
	if g == 1 {
		xPrev = l.initPool
	} else {
		prev, err := l.priorGeneration(g)
		if err != nil {
			return nil, false, err
		}
		xPrev = prev.X()
	}

	next, stop, err := l.selector.Next(g, gen.X(), xPrev, gen.D())
	if err != nil {
		return nil, false, &ToleranceError{Generation: g, Err: err}
	}
	if stop {
		return nil, true, nil
	}
	return []float64{next}, false, nil
}

// priorGeneration returns the generation committed immediately before the
// one just built (i.e. generation g-1, 1-indexed).
func (l *Loop) priorGeneration(g int) (*particle.Generation, error) {
	idx := g - 2 // store is 0-indexed; generation g-1 sits at index g-2
	if idx < 0 || idx >= l.state.store.Len() {
		return nil, &ConstructionError{Field: "history", Err: fmt.Errorf("no committed generation %d", g-1)}
	}
	return l.state.store.At(idx), nil
}

func (l *Loop) reportProgress(g int, gen *particle.Generation, elapsed time.Duration) {
	l.state.cfg.Logger().Infow("generation committed",
		"generation", g,
		"epsilon", gen.Epsilon(),
		"ess", gen.ESS(),
		"nprop", gen.NProp(),
		"acceptance_rate", gen.AcceptanceRate(),
		"duration", elapsed,
	)
	if l.state.metrics != nil {
		l.state.metrics.SetGeneration(g)
		l.state.metrics.ObserveAccepted(gen.NP())
		l.state.metrics.ObserveProposals(gen.NProp())
		l.state.metrics.ObserveDuration(elapsed.Seconds())
		for s, e := range gen.Epsilon() {
			l.state.metrics.SetTolerance(fmt.Sprintf("statistic_%d", s), e)
		}
	}
	if l.state.postGen != nil {
		l.state.postGen.PostGen(Snapshot{
			Generation: g,
			NP:         gen.NP(),
			NProp:      gen.NProp(),
			ESS:        gen.ESS(),
			Epsilon:    gen.Epsilon(),
		})
	}
}
