package weight

import (
	"fmt"

	"github.com/dhelms-lab/abcsmc/priors"
	"gonum.org/v1/gonum/mat"
)

// Updater computes and normalizes importance weights across generations.
type Updater struct {
	priors *priors.Set
}

// NewUpdater binds an Updater to the PriorSet whose joint density is the
// weight numerator.
func NewUpdater(ps *priors.Set) *Updater {
	return &Updater{priors: ps}
}

// Generation0 returns the uniform weights assigned to the first
// generation: w̃=1 for every accepted particle, normalized to 1/N_p.
func (u *Updater) Generation0(np int) []float64 {
	w := make([]float64, np)
	for i := range w {
		w[i] = 1.0 / float64(np)
	}
	return w
}

// Update computes and normalizes weights for generation g>0. x is the
// N_p×k matrix of newly accepted particle values; prevX and prevW are the
// previous generation's values and normalized weights. kernel must have
// been built from prevX (weight.NewKernel(prevX)) — callers building both
// generation g's proposals and its weights from the same kernel use one
// Σ for both.
func (u *Updater) Update(x *mat.Dense, prevX *mat.Dense, prevW []float64, kernel *Kernel) ([]float64, float64, error) {
	np, _ := x.Dims()
	prevN, _ := prevX.Dims()

	unnorm := make([]float64, np)
	for i := 0; i < np; i++ {
		row := mat.Row(nil, i, x)
		numerator, err := u.priors.Density(row)
		if err != nil {
			return nil, 0, fmt.Errorf("weight: Update: %w", err)
		}

		denom := 0.0
		for j := 0; j < prevN; j++ {
			mean := mat.Row(nil, j, prevX)
			density, err := kernel.Density(row, mean)
			if err != nil {
				return nil, 0, fmt.Errorf("weight: Update: %w", err)
			}
			denom += prevW[j] * density
		}
		if denom <= 0 {
			return nil, 0, fmt.Errorf("%w: particle %d", ErrZeroDenominator, i)
		}
		unnorm[i] = numerator / denom
	}

	sum := 0.0
	for _, wi := range unnorm {
		sum += wi
	}
	if sum <= 0 {
		return nil, 0, ErrZeroDenominator
	}

	sumSq := 0.0
	normalized := make([]float64, np)
	for i, wi := range unnorm {
		normalized[i] = wi / sum
		sumSq += normalized[i] * normalized[i]
	}
	ess := 1.0
	if sumSq > 0 {
		ess = 1.0 / sumSq
	}
	return normalized, ess, nil
}
