package abc

import (
	"fmt"

	"github.com/dhelms-lab/abcsmc/proposal"
	"github.com/dhelms-lab/abcsmc/weight"
	"gonum.org/v1/gonum/mat"
)

// Continue resumes a run from state's committed history, accepting a
// fresh S×G' tolerance matrix extension appended after the last committed
// generation's tolerance. Every column of extension must be strictly less
// than the one before it, and its first column strictly less than the
// last committed generation's tolerance, matching the invariant Store.Push
// already enforces within a single run.
//
// The returned Loop always runs in explicit-schedule mode: the adaptive
// selector has nothing to fit a density ratio against on a resumed run
// without also replaying every prior generation, so continuation always
// supplies its own tolerances rather than deriving them.
func Continue(state *State, extension *mat.Dense) (*Loop, error) {
	if state.store.Len() == 0 {
		return nil, &ConstructionError{Field: "history", Err: ErrEmptyHistory}
	}

	history := state.store.ToleranceHistory() // S x G, G = state.store.Len()
	sHist := len(history)
	gHist := len(history[0])

	extRows, extCols := extension.Dims()
	if extRows != sHist {
		return nil, &ToleranceError{
			Generation: gHist + 1,
			Err:        fmt.Errorf("%w: history has %d statistics, extension has %d", ErrScheduleExhausted, sHist, extRows),
		}
	}
	if extCols == 0 {
		return nil, &ToleranceError{Generation: gHist + 1, Err: ErrScheduleExhausted}
	}

	prev := make([]float64, sHist)
	for s := range history {
		prev[s] = history[s][gHist-1]
	}
	for c := 0; c < extCols; c++ {
		col := mat.Col(nil, c, extension)
		for s, v := range col {
			if v >= prev[s] {
				return nil, &ToleranceError{
					Generation: gHist + 1 + c,
					Err:        fmt.Errorf("%w: column %d statistic %d: new=%v prev=%v", ErrScheduleExhausted, c, s, v, prev[s]),
				}
			}
		}
		prev = col
	}

	combined := mat.NewDense(sHist, gHist+extCols, nil)
	for s := 0; s < sHist; s++ {
		for g := 0; g < gHist; g++ {
			combined.Set(s, g, history[s][g])
		}
	}
	for c := 0; c < extCols; c++ {
		col := mat.Col(nil, c, extension)
		for s := 0; s < sHist; s++ {
			combined.Set(s, gHist+c, col[s])
		}
	}

	return &Loop{
		state:    state,
		sampler:  proposal.NewSampler(state.priors).WithMaxRejections(state.cfg.MaxRejections()),
		updater:  weight.NewUpdater(state.priors),
		schedule: combined,
		startGen: gHist + 1,
	}, nil
}
