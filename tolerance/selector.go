package tolerance

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhelms-lab/abcsmc/kliep"
	"gonum.org/v1/gonum/mat"
)

// stoppingThreshold and stoppingMinGeneration implement the "q_t > 0.99 AND
// g >= 3" stopping rule.
const (
	stoppingThreshold      = 0.99
	stoppingMinGeneration  = 3
)

// Selector implements adaptive tolerance selection for runs where the
// caller supplied no explicit tolerance schedule.
type Selector struct {
	np int
}

// NewSelector binds a Selector to the target particle count N_p.
func NewSelector(np int) *Selector {
	return &Selector{np: np}
}

// InitialTolerance implements generation 1's sort-and-truncate rule: given
// the n_init×1 distance matrix from oversampled prior draws, it sorts
// ascending, returns the N_p-th smallest distance as the initial tolerance,
// and the row indices of the N_p particles to retain (in ascending-distance
// order). Requires n_init > N_p and exactly one summary statistic.
func (s *Selector) InitialTolerance(dInit *mat.Dense) (eps float64, keep []int, err error) {
	nInit, cols := dInit.Dims()
	if cols != 1 {
		return 0, nil, ErrMultipleStatistics
	}
	if nInit <= s.np {
		return 0, nil, ErrInsufficientInit
	}

	type ranked struct {
		d   float64
		idx int
	}
	arr := make([]ranked, nInit)
	for i := 0; i < nInit; i++ {
		arr[i] = ranked{d: dInit.At(i, 0), idx: i}
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i].d < arr[j].d })

	eps = arr[s.np-1].d
	keep = make([]int, s.np)
	for i := 0; i < s.np; i++ {
		keep[i] = arr[i].idx
	}
	return eps, keep, nil
}

// Next fits a density ratio between the current and previous generation's
// particle clouds, and either signals the adaptive stopping rule or
// returns the next tolerance: the ceil(q_t*N_p)-th smallest summed
// distance in the current generation, where q_t = 1/sup(r).
func (s *Selector) Next(generation int, xCurrent, xPrev, dCurrent *mat.Dense) (eps float64, stop bool, err error) {
	nRows, _ := dCurrent.Dims()
	nx, _ := xCurrent.Dims()
	if nRows != nx {
		return 0, false, ErrDimensionMismatch
	}

	est, err := kliep.Fit(xCurrent, xPrev)
	if err != nil {
		return 0, false, fmt.Errorf("tolerance: Next: %w", err)
	}
	ct, _, err := est.Supremum(xCurrent)
	if err != nil {
		return 0, false, fmt.Errorf("tolerance: Next: %w", err)
	}
	if ct <= 0 {
		return 0, false, fmt.Errorf("tolerance: Next: non-positive supremum %v", ct)
	}
	qt := 1.0 / ct

	if qt > stoppingThreshold && generation >= stoppingMinGeneration {
		return 0, true, nil
	}

	sums := rowSums(dCurrent)
	sort.Float64s(sums)

	rank := int(math.Ceil(qt * float64(s.np)))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sums) {
		rank = len(sums)
	}
	return sums[rank-1], false, nil
}

func rowSums(d *mat.Dense) []float64 {
	n, k := d.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			sum += d.At(i, j)
		}
		out[i] = sum
	}
	return out
}
