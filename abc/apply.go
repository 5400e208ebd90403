package abc

import (
	"fmt"
	"math"

	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/simulator"
)

// applyGData writes proposal x into handle's gdata slots named by set, in
// set's declaration order.
func applyGData(set *priors.Set, handle *simulator.Handle, x []float64) error {
	for i, name := range set.Names() {
		idx, ok := set.Index(name)
		if !ok {
			return fmt.Errorf("abc: applyGData: %s not found in prior set index", name)
		}
		if err := handle.SetGData(idx, x[i]); err != nil {
			return err
		}
	}
	return nil
}

// applyLData writes proposal x into column col of handle's ldata rows
// named by set.
func applyLData(set *priors.Set, handle *simulator.Handle, x []float64, col int) error {
	for i, name := range set.Names() {
		idx, ok := set.Index(name)
		if !ok {
			return fmt.Errorf("abc: applyLData: %s not found in prior set index", name)
		}
		if err := handle.SetLData(idx, col, x[i]); err != nil {
			return err
		}
	}
	return nil
}

// withinTolerance reports whether d[s] <= eps[s] for every summary
// statistic. It is only called on distances already validated by
// validateDistance; callers must not treat NaN or negative entries as
// implicitly rejected here.
func withinTolerance(d, eps []float64) bool {
	if len(d) != len(eps) {
		return false
	}
	for i := range d {
		if d[i] > eps[i] {
			return false
		}
	}
	return true
}

// validateDistance checks a Distance/BatchDistance result against the
// boundary the caller must not silently accept: wrong length, NaN, or
// negative entries. Go's float comparisons treat NaN as neither > nor <=
// eps, so without this check a NaN distance would fall through
// withinTolerance as accepted.
func validateDistance(d []float64, wantLen int) error {
	if len(d) != wantLen {
		return fmt.Errorf("%w: got %d statistics, want %d", ErrInvalidDistance, len(d), wantLen)
	}
	for i, v := range d {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: statistic %d: d=%v", ErrInvalidDistance, i, v)
		}
	}
	return nil
}
