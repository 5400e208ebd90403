package particle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const weightSumTolerance = 1e-10

// Generation is one committed round of proposal/accept/weight updating:
// an N_p×k value matrix, a length-N_p weight vector summing to 1, an
// N_p×S distance matrix, a length-S tolerance vector every row of d must
// satisfy componentwise, an effective sample size, and the number of
// proposals evaluated to produce it.
type Generation struct {
	x      *mat.Dense // N_p x k
	w      []float64  // length N_p, sums to 1
	d      *mat.Dense // N_p x S
	eps    []float64  // length S
	ess    float64
	nprop  int
}

// NewGeneration validates and constructs a Generation. ess is derived, not
// supplied: ess = 1 / Σ w_i². Validation enforces: w >= 0, sum(w) = 1 ±
// 1e-10, and d <= eps componentwise for every particle.
func NewGeneration(x *mat.Dense, w []float64, d *mat.Dense, eps []float64, nprop int) (*Generation, error) {
	np, _ := x.Dims()
	dRows, dCols := d.Dims()
	if np != len(w) || np != dRows {
		return nil, ErrDimensionMismatch
	}
	if dCols != len(eps) {
		return nil, ErrToleranceDimensionMismatch
	}

	sum := 0.0
	for i, wi := range w {
		if wi < 0 {
			return nil, fmt.Errorf("%w: w[%d]=%v", ErrNegativeWeight, i, wi)
		}
		sum += wi
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return nil, fmt.Errorf("%w: sum=%v", ErrWeightSum, sum)
	}

	for i := 0; i < np; i++ {
		for s := 0; s < dCols; s++ {
			v := d.At(i, s)
			if math.IsNaN(v) || v < 0 {
				return nil, fmt.Errorf("%w: particle %d, statistic %d: d=%v", ErrInvalidDistance, i, s, v)
			}
			if v > eps[s] {
				return nil, fmt.Errorf("%w: particle %d, statistic %d: d=%v eps=%v", ErrDistanceExceedsTolerance, i, s, v, eps[s])
			}
		}
	}

	return &Generation{
		x:     x,
		w:     append([]float64(nil), w...),
		d:     d,
		eps:   append([]float64(nil), eps...),
		ess:   ess(w),
		nprop: nprop,
	}, nil
}

// ess computes the effective sample size 1 / Σ w_i², treating an
// all-zero weight vector as ess=1 (the degenerate n=0 case never reaches
// here since NewGeneration requires sum(w)=1).
func ess(w []float64) float64 {
	sumSq := 0.0
	for _, wi := range w {
		sumSq += wi * wi
	}
	if sumSq == 0 {
		return 1.0
	}
	return 1.0 / sumSq
}

// NP returns the accepted particle count.
func (g *Generation) NP() int { np, _ := g.x.Dims(); return np }

// K returns the parameter dimension.
func (g *Generation) K() int { _, k := g.x.Dims(); return k }

// S returns the summary-statistic count.
func (g *Generation) S() int { return len(g.eps) }

// X returns the N_p×k value matrix.
func (g *Generation) X() *mat.Dense { return g.x }

// W returns a copy of the length-N_p weight vector.
func (g *Generation) W() []float64 { return append([]float64(nil), g.w...) }

// D returns the N_p×S distance matrix.
func (g *Generation) D() *mat.Dense { return g.d }

// Epsilon returns a copy of the length-S tolerance vector.
func (g *Generation) Epsilon() []float64 { return append([]float64(nil), g.eps...) }

// ESS returns the effective sample size 1/Σw_i².
func (g *Generation) ESS() float64 { return g.ess }

// NProp returns the number of proposals evaluated to produce this
// generation.
func (g *Generation) NProp() int { return g.nprop }

// AcceptanceRate returns NP()/NProp().
func (g *Generation) AcceptanceRate() float64 {
	if g.nprop == 0 {
		return 0
	}
	return float64(g.NP()) / float64(g.nprop)
}

// Row returns particle i's parameter vector.
func (g *Generation) Row(i int) []float64 {
	row := make([]float64, g.K())
	mat.Row(row, i, g.x)
	return row
}
