package weight_test

import (
	"testing"

	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/weight"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGeneration0UniformWeights(t *testing.T) {
	u := weight.NewUpdater(nil)
	w := u.Generation0(4)
	require.Len(t, w, 4)
	sum := 0.0
	for _, wi := range w {
		require.Equal(t, 0.25, wi)
		sum += wi
	}
	require.InDelta(t, 1.0, sum, 1e-12)
}

func TestKernelDensityPeaksAtMean(t *testing.T) {
	prevX := mat.NewDense(5, 1, []float64{0.1, 0.2, 0.3, 0.4, 0.5})
	kernel, err := weight.NewKernel(prevX)
	require.NoError(t, err)

	atMean, err := kernel.Density([]float64{0.3}, []float64{0.3})
	require.NoError(t, err)
	away, err := kernel.Density([]float64{5.0}, []float64{0.3})
	require.NoError(t, err)
	require.Greater(t, atMean, away)
}

func TestUpdateNormalizes(t *testing.T) {
	beta, err := priors.New("beta", priors.Uniform, 0, 1)
	require.NoError(t, err)
	set, err := priors.NewSet([]string{"beta"}, nil, beta)
	require.NoError(t, err)

	prevX := mat.NewDense(3, 1, []float64{0.2, 0.5, 0.8})
	prevW := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	kernel, err := weight.NewKernel(prevX)
	require.NoError(t, err)

	x := mat.NewDense(2, 1, []float64{0.4, 0.6})
	u := weight.NewUpdater(set)
	w, ess, err := u.Update(x, prevX, prevW, kernel)
	require.NoError(t, err)
	require.Len(t, w, 2)

	sum := 0.0
	for _, wi := range w {
		require.GreaterOrEqual(t, wi, 0.0)
		sum += wi
	}
	require.InDelta(t, 1.0, sum, 1e-10)
	require.Greater(t, ess, 0.0)
	require.LessOrEqual(t, ess, 2.0)
}
