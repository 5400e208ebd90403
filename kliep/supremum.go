package kliep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Supremum returns sup_x r(x) over the support implied by xnu. When k=1 it
// runs a Nelder-Mead search started at the midpoint of [min(xnu),max(xnu)]
// that scores every point outside that interval as +Inf, so the result
// stays inside the interval; this is a local search, not a bracketing
// method. When k>=2 it runs an unbounded Nelder-Mead simplex search seeded
// at xnu's first row.
func (e *Estimator) Supremum(xnu *mat.Dense) (float64, []float64, error) {
	n, k := xnu.Dims()
	if n == 0 {
		return 0, nil, ErrEmptySample
	}

	if k == 1 {
		lo, hi := columnBounds(xnu, 0)
		return e.boundedMaximize(lo, hi)
	}
	x0 := mat.Row(nil, 0, xnu)
	return e.unboundedMaximize(x0)
}

func (e *Estimator) boundedMaximize(lo, hi float64) (float64, []float64, error) {
	negate := func(x []float64) float64 {
		v := x[0]
		if v < lo || v > hi {
			return math.Inf(1)
		}
		r, err := e.DensityRatio(x)
		if err != nil {
			return math.Inf(1)
		}
		return -r
	}
	problem := optimize.Problem{Func: negate}
	result, err := optimize.Minimize(problem, []float64{(lo + hi) / 2}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrOptimizeFailed, err)
	}
	return -result.F, result.X, nil
}

func (e *Estimator) unboundedMaximize(x0 []float64) (float64, []float64, error) {
	negate := func(x []float64) float64 {
		r, err := e.DensityRatio(x)
		if err != nil {
			return math.Inf(1)
		}
		return -r
	}
	problem := optimize.Problem{Func: negate}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrOptimizeFailed, err)
	}
	return -result.F, result.X, nil
}
