package particle_test

import (
	"math"
	"testing"

	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func mustGeneration(t *testing.T, w []float64, d []float64, eps []float64, nprop int) *particle.Generation {
	t.Helper()
	np := len(w)
	x := mat.NewDense(np, 1, make([]float64, np))
	dm := mat.NewDense(np, len(eps), d)
	g, err := particle.NewGeneration(x, w, dm, eps, nprop)
	require.NoError(t, err)
	return g
}

// TestDegeneratePriorAcceptsAll verifies the boundary case where
// n_particles=2 with equal weights yields ess=2.
func TestDegeneratePriorAcceptsAll(t *testing.T) {
	g := mustGeneration(t, []float64{0.5, 0.5}, []float64{0.1, 0.1}, []float64{0.3}, 2)
	require.Equal(t, 2.0, g.ESS())
	require.Equal(t, 1.0, g.AcceptanceRate())
}

func TestWeightSumValidation(t *testing.T) {
	np := 2
	x := mat.NewDense(np, 1, make([]float64, np))
	d := mat.NewDense(np, 1, []float64{0.1, 0.1})
	_, err := particle.NewGeneration(x, []float64{0.3, 0.3}, d, []float64{0.3}, 2)
	require.ErrorIs(t, err, particle.ErrWeightSum)
}

func TestDistanceExceedsTolerance(t *testing.T) {
	np := 1
	x := mat.NewDense(np, 1, make([]float64, np))
	d := mat.NewDense(np, 1, []float64{0.5})
	_, err := particle.NewGeneration(x, []float64{1.0}, d, []float64{0.3}, 1)
	require.ErrorIs(t, err, particle.ErrDistanceExceedsTolerance)
}

func TestNaNDistanceRejected(t *testing.T) {
	np := 1
	x := mat.NewDense(np, 1, make([]float64, np))
	d := mat.NewDense(np, 1, []float64{math.NaN()})
	_, err := particle.NewGeneration(x, []float64{1.0}, d, []float64{0.3}, 1)
	require.ErrorIs(t, err, particle.ErrInvalidDistance)
}

func TestNegativeDistanceRejected(t *testing.T) {
	np := 1
	x := mat.NewDense(np, 1, make([]float64, np))
	d := mat.NewDense(np, 1, []float64{-0.1})
	_, err := particle.NewGeneration(x, []float64{1.0}, d, []float64{0.3}, 1)
	require.ErrorIs(t, err, particle.ErrInvalidDistance)
}

func TestStoreToleranceMustDecrease(t *testing.T) {
	store := particle.NewStore()
	g1 := mustGeneration(t, []float64{1.0}, []float64{0.2}, []float64{0.3}, 1)
	require.NoError(t, store.Push(g1))

	g2 := mustGeneration(t, []float64{1.0}, []float64{0.2}, []float64{0.3}, 1)
	err := store.Push(g2)
	require.ErrorIs(t, err, particle.ErrToleranceNotDecreasing)

	g3 := mustGeneration(t, []float64{1.0}, []float64{0.1}, []float64{0.2}, 1)
	require.NoError(t, store.Push(g3))
	require.Equal(t, 2, store.Len())
}

func TestStoreToleranceHistory(t *testing.T) {
	store := particle.NewStore()
	require.NoError(t, store.Push(mustGeneration(t, []float64{1.0}, []float64{0.1}, []float64{0.5}, 1)))
	require.NoError(t, store.Push(mustGeneration(t, []float64{1.0}, []float64{0.05}, []float64{0.3}, 1)))

	hist := store.ToleranceHistory()
	require.Equal(t, [][]float64{{0.5, 0.3}}, hist)
}
